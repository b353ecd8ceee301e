package paramdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"
	"go.uber.org/zap"

	"github.com/dcrodman/prs/internal/core/bytes"
	"github.com/dcrodman/prs/internal/core/prs"
)

// writeParameterFixture compresses raw and writes it to dir/name, returning
// the full path. There are no real PSO parameter files in this tree, so
// tests build their own fixtures through the codec rather than relying on
// binary game assets.
func writeParameterFixture(t *testing.T, dir, name string, raw []byte) string {
	t.Helper()

	compressed, err := prs.Compress(raw)
	if err != nil {
		t.Fatalf("error compressing fixture %s: %v", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		t.Fatalf("error writing fixture %s: %v", name, err)
	}
	return path
}

func synthesizeStatsFile(t *testing.T) ([NumCharacterClasses]stats, []byte) {
	t.Helper()

	want := [NumCharacterClasses]stats{}
	for i := range want {
		want[i] = stats{
			ATP: uint16(100 + i),
			MST: uint16(50 + i),
			EVP: uint16(30 + i),
			HP:  uint16(200 + i*10),
			DFP: uint16(40 + i),
			ATA: uint16(20 + i),
			LCK: uint16(10 + i),
		}
	}

	var raw []byte
	for _, s := range want {
		b, _ := bytes.BytesFromStruct(&s)
		raw = append(raw, b...)
	}
	return want, raw
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	logger := zap.NewNop().Sugar()
	return NewLoader(dir, time.Minute, logger, nil)
}

func TestLoader_LoadAll(t *testing.T) {
	dir := t.TempDir()

	_, statsRaw := synthesizeStatsFile(t)
	writeParameterFixture(t, dir, baseStatsFile, statsRaw)
	writeParameterFixture(t, dir, "ItemPMT.prs", []byte("some item parameter table contents"))

	// Non-.prs files in the directory must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a parameter file"), 0o644); err != nil {
		t.Fatalf("error writing README.txt: %v", err)
	}

	loader := newTestLoader(t, dir)
	loaded, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadAll() loaded %d files, want 2", len(loaded))
	}

	for _, info := range loaded {
		if info.DisplayName == "" {
			t.Errorf("FileInfo for %s has an empty DisplayName", info.Name)
		}
	}

	data, ok := loader.Get("ItemPMT.prs")
	if !ok {
		t.Fatal("Get(\"ItemPMT.prs\") found nothing after LoadAll")
	}
	if string(data) != "some item parameter table contents" {
		t.Errorf("Get(\"ItemPMT.prs\") = %q, want the original fixture contents", data)
	}
}

func TestLoader_BaseStats(t *testing.T) {
	dir := t.TempDir()
	want, statsRaw := synthesizeStatsFile(t)
	writeParameterFixture(t, dir, baseStatsFile, statsRaw)

	loader := newTestLoader(t, dir)
	if _, err := loader.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	got, err := loader.BaseStats()
	if err != nil {
		t.Fatalf("BaseStats() error = %v", err)
	}

	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("BaseStats() diff:\n%v", diff)
	}
}

func TestLoader_BaseStats_NotLoadedFails(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())
	if _, err := loader.BaseStats(); err == nil {
		t.Error("BaseStats() expected an error when the stats file was never loaded")
	}
}
