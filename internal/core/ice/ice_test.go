package ice

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dcrodman/prs/internal/core/prs"
)

// buildFileRecord lays out one "normal group" file record: a 4-byte unused
// field, a little-endian size, then the file's own bytes.
func buildFileRecord(payload []byte) []byte {
	record := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(record[4:8], uint32(len(record)))
	copy(record[8:], payload)
	return record
}

func buildArchive(t *testing.T, files [][]byte, compress bool) []byte {
	t.Helper()

	var group bytes.Buffer
	for _, f := range files {
		group.Write(buildFileRecord(f))
	}
	groupPayload := group.Bytes()

	stored := groupPayload
	compressedSize := uint32(0)
	if compress {
		c, err := prs.Compress(groupPayload)
		if err != nil {
			t.Fatalf("Compress() failed: %v", err)
		}
		stored = c
		compressedSize = uint32(len(c))
	}

	var out bytes.Buffer
	archiveHeader := ArchiveHeader{
		Signature: 0x00454349,
		Version:   4,
		Magic80:   0x80,
		MagicFF:   0xFF,
		Flags:     0,
		FileSize:  uint32(len(stored)),
	}
	if err := binary.Write(&out, binary.LittleEndian, archiveHeader); err != nil {
		t.Fatalf("writing archive header: %v", err)
	}

	out.Write(make([]byte, keyMaterialSize))

	group1Header := GroupHeader{
		OriginalSize:   uint32(len(groupPayload)),
		CompressedSize: compressedSize,
		FileCount:      uint32(len(files)),
	}
	if err := binary.Write(&out, binary.LittleEndian, group1Header); err != nil {
		t.Fatalf("writing group1 header: %v", err)
	}
	// group2 is empty
	if err := binary.Write(&out, binary.LittleEndian, GroupHeader{}); err != nil {
		t.Fatalf("writing group2 header: %v", err)
	}
	// the group header block is padded out to groupHeaderFieldSize
	out.Write(make([]byte, groupHeaderFieldSize-2*groupHeaderSize))

	out.Write(stored)

	return out.Bytes()
}

func TestReadArchive_UncompressedGroup(t *testing.T) {
	files := [][]byte{[]byte("hello"), []byte("world!!")}
	raw := buildArchive(t, files, false)

	archive, err := ReadArchive(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}

	if diff := cmp.Diff(files, archive.Group1.Files); diff != "" {
		t.Errorf("Group1.Files mismatch, diff:\n%s", diff)
	}
	if len(archive.Group2.Files) != 0 {
		t.Errorf("expected an empty Group2, got %d files", len(archive.Group2.Files))
	}
}

func TestReadArchive_CompressedGroup(t *testing.T) {
	files := [][]byte{
		bytes.Repeat([]byte{0xAA}, 40),
		[]byte("a repeated repeated repeated string"),
	}
	raw := buildArchive(t, files, true)

	archive, err := ReadArchive(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadArchive() failed: %v", err)
	}

	if diff := cmp.Diff(files, archive.Group1.Files); diff != "" {
		t.Errorf("Group1.Files mismatch, diff:\n%s", diff)
	}
}

func TestReadArchive_RejectsEncrypted(t *testing.T) {
	files := [][]byte{[]byte("secret")}
	raw := buildArchive(t, files, false)

	// Flip the encrypted bit in the archive header in place (Flags is the
	// 7th uint32 field: signature, padding, version, magic80, magicff,
	// crc32, flags).
	binary.LittleEndian.PutUint32(raw[24:28], FlagEncrypted)

	if _, err := ReadArchive(bytes.NewReader(raw)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}

func TestReadArchive_RejectsUnknownVersion(t *testing.T) {
	files := [][]byte{[]byte("x")}
	raw := buildArchive(t, files, false)

	binary.LittleEndian.PutUint32(raw[8:12], 7)

	if _, err := ReadArchive(bytes.NewReader(raw)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got: %v", err)
	}
}
