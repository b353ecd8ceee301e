// Package ice reads PSO2 "ICE" archives: a small container format that
// bundles up to two groups of files behind a shared header, each group
// optionally PRS-compressed. Only the plain, unencrypted/unobfuscated
// layout is supported here; see ErrUnsupported below.
package ice

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/dcrodman/prs/internal/core/prs"
)

// Flags bits carried in an archive header.
const (
	FlagEncrypted uint32 = 0x01
	FlagKraken    uint32 = 0x08
)

const (
	keyMaterialSize      = 0x100
	groupHeaderFieldSize = 0x30
	groupHeaderSize      = 16
)

// ErrUnsupported is returned for archive shapes this package declines to
// handle: encrypted groups, Kraken-compressed groups, and archive versions
// other than 4. Those are the same collaborators spec.md's own Non-goals
// name as out of scope (a third-party Kraken wrapper, a "floatage"
// deobfuscator) or absent from the reference source this module was
// grounded on (ICE versions 3, 5-9 carry no group payload at all).
var ErrUnsupported = errors.New("ice: unsupported archive")

// ArchiveHeader is the fixed 32-byte header at the start of every ICE file.
type ArchiveHeader struct {
	Signature uint32
	_         [4]byte
	Version   uint32
	Magic80   uint32
	MagicFF   uint32
	CRC32     uint32
	Flags     uint32
	FileSize  uint32
}

// GroupHeader precedes each of an archive's (up to two) file groups.
type GroupHeader struct {
	OriginalSize   uint32
	CompressedSize uint32
	FileCount      uint32
	CRC32          uint32
}

// StoredSize is the number of bytes the group actually occupies in the
// archive: the compressed size when the group is compressed, otherwise the
// original size.
func (h GroupHeader) StoredSize() uint32 {
	if h.CompressedSize != 0 {
		return h.CompressedSize
	}
	return h.OriginalSize
}

// Group is a decompressed, unpacked group of files extracted from an archive.
type Group struct {
	Header GroupHeader
	Files  [][]byte
}

// Archive is a parsed ICE file: its header plus up to two file groups.
type Archive struct {
	Header ArchiveHeader
	Group1 Group
	Group2 Group
}

// ReadArchive parses an unencrypted, non-Kraken, version-4 ICE archive from
// r, decompressing any PRS-compressed group and splitting each group's
// payload into its constituent files.
func ReadArchive(r io.Reader) (*Archive, error) {
	var header ArchiveHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "ice: reading archive header")
	}

	if header.Version != 4 {
		return nil, errors.Wrapf(ErrUnsupported, "archive version %d", header.Version)
	}
	if header.Flags&FlagEncrypted != 0 {
		return nil, errors.Wrap(ErrUnsupported, "encrypted archives")
	}
	if header.Flags&FlagKraken != 0 {
		return nil, errors.Wrap(ErrUnsupported, "kraken-compressed archives")
	}

	// Key material precedes the group headers for every v4 archive,
	// encrypted or not; unused here since encrypted archives are rejected
	// above.
	if _, err := io.CopyN(io.Discard, r, keyMaterialSize); err != nil {
		return nil, errors.Wrap(err, "ice: reading key material block")
	}

	groupHeaderBlock := make([]byte, groupHeaderFieldSize)
	if _, err := io.ReadFull(r, groupHeaderBlock); err != nil {
		return nil, errors.Wrap(err, "ice: reading group header block")
	}

	group1Header, err := parseGroupHeader(groupHeaderBlock[:groupHeaderSize])
	if err != nil {
		return nil, err
	}
	group2Header, err := parseGroupHeader(groupHeaderBlock[groupHeaderSize : 2*groupHeaderSize])
	if err != nil {
		return nil, err
	}

	group1, err := readGroup(r, group1Header)
	if err != nil {
		return nil, errors.Wrap(err, "ice: reading group 1")
	}
	group2, err := readGroup(r, group2Header)
	if err != nil {
		return nil, errors.Wrap(err, "ice: reading group 2")
	}

	return &Archive{Header: header, Group1: group1, Group2: group2}, nil
}

func parseGroupHeader(b []byte) (GroupHeader, error) {
	var h GroupHeader
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return GroupHeader{}, errors.Wrap(err, "ice: parsing group header")
	}
	return h, nil
}

func readGroup(r io.Reader, header GroupHeader) (Group, error) {
	if header.StoredSize() == 0 {
		return Group{Header: header}, nil
	}

	stored := make([]byte, header.StoredSize())
	if _, err := io.ReadFull(r, stored); err != nil {
		return Group{}, errors.Wrap(err, "reading stored payload")
	}

	payload := stored
	if header.CompressedSize != 0 {
		decompressed, err := prs.Decompress(stored, int(header.OriginalSize))
		if err != nil {
			return Group{}, errors.Wrap(err, "decompressing group payload")
		}
		payload = decompressed
	}

	files, err := splitGroup(header, payload)
	if err != nil {
		return Group{}, err
	}
	return Group{Header: header, Files: files}, nil
}

// splitGroup divides a group's decompressed payload into its FileCount
// files. Each file is prefixed by a 4-byte unused field followed by a
// little-endian uint32 size counting the whole record, prefix included,
// mirroring the "normal" (non-NIFL, non-headerless) group layout. The
// returned files do not include the 8-byte prefix.
func splitGroup(header GroupHeader, data []byte) ([][]byte, error) {
	files := make([][]byte, 0, header.FileCount)

	offset := 0
	for i := uint32(0); i < header.FileCount; i++ {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("ice: truncated file record %d in group", i)
		}
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		if size < 8 || offset+size > len(data) {
			return nil, fmt.Errorf("ice: file record %d declares invalid size %d for group payload", i, size)
		}
		files = append(files, data[offset+8:offset+size])
		offset += size
	}
	return files, nil
}
