// Package paramdata loads PSO/PSO2 parameter files - PRS-compressed binary
// tables describing things like per-class character stats - from a directory
// on disk, decompressing and caching each one and recording an audit trail of
// the operation in store.
package paramdata

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/dcrodman/prs/internal/core/bytes"
	"github.com/dcrodman/prs/internal/core/prs"
	"github.com/dcrodman/prs/internal/core/store"
)

const (
	NumCharacterClasses = 12
	// Amount of meseta new characters are given when created.
	StartingMeseta = 300

	// baseStatsFile is the parameter file holding the per-class starting
	// stats consulted when a new character is created.
	baseStatsFile = "PlyLevelTbl.prs"
	// statsRecordSize is the width in bytes of one class's entry in
	// baseStatsFile; entries are stored back to back with no header.
	statsRecordSize = 14
)

// stats are the per-character stats as stored in baseStatsFile. The values of
// the CharClass constants a caller defines can be used to index into the
// array BaseStats returns to obtain the base stats for a given class.
type stats struct {
	ATP uint16
	MST uint16
	EVP uint16
	HP  uint16
	DFP uint16
	ATA uint16
	LCK uint16
}

// FileInfo describes one loaded parameter file.
type FileInfo struct {
	Name        string
	DisplayName string
	Size        uint32
	Checksum    uint32
}

// Loader reads, decompresses and caches the parameter files under a
// configured directory. Unlike the original vanilla-files-only vintage of
// this package, it reads from an operator-supplied directory rather than an
// embedded fixture set, so it works with whatever parameter files the
// deployment actually ships.
type Loader struct {
	dir      string
	cacheTTL time.Duration
	cache    *Cache
	logger   *zap.SugaredLogger

	// db is optional; when set, every successful load is recorded as a
	// CompressionJob. A nil db silently disables the audit trail.
	db *gorm.DB
}

func NewLoader(dir string, cacheTTL time.Duration, logger *zap.SugaredLogger, db *gorm.DB) *Loader {
	return &Loader{
		dir:      dir,
		cacheTTL: cacheTTL,
		cache:    NewCache(),
		logger:   logger,
		db:       db,
	}
}

// LoadAll reads every *.prs file in the configured directory, decompresses
// it, and caches the result under its file name.
func (l *Loader) LoadAll() ([]FileInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("error reading parameter directory %s: %w", l.dir, err)
	}

	titleCaser := cases.Title(language.English)

	var loaded []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".prs") {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		compressed, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading parameter file %s: %w", path, err)
		}

		info, err := l.loadOne(path, entry.Name(), compressed, titleCaser)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, info)
	}

	return loaded, nil
}

func (l *Loader) loadOne(path, name string, compressed []byte, titleCaser cases.Caser) (FileInfo, error) {
	size, err := prs.DecompressSize(compressed)
	if err != nil {
		return FileInfo{}, fmt.Errorf("error decompressing size of %s: %w", name, err)
	}
	decompressed, err := prs.Decompress(compressed, size)
	if err != nil {
		return FileInfo{}, fmt.Errorf("error decompressing %s: %w", name, err)
	}

	checksum := crc32.ChecksumIEEE(decompressed)
	l.cache.Put(name, decompressed, l.cacheTTL)

	l.logger.Debugf("%s: %d -> %d bytes", name, len(compressed), len(decompressed))

	if l.db != nil {
		job := &store.CompressionJob{
			Operation:  store.OperationDecompress,
			SourcePath: path,
			InputSize:  len(compressed),
			OutputSize: len(decompressed),
			Checksum:   checksum,
		}
		if err := store.CreateCompressionJob(l.db, job); err != nil {
			l.logger.Warnw("failed to record parameter load", "file", name, "error", err)
		}
	}

	return FileInfo{
		Name:        name,
		DisplayName: titleCaser.String(strings.TrimSuffix(name, ".prs")),
		Size:        uint32(len(decompressed)),
		Checksum:    checksum,
	}, nil
}

// Get returns the decompressed bytes of a previously loaded parameter file.
func (l *Loader) Get(name string) ([]byte, bool) {
	v, ok := l.cache.Get(name)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// BaseStats parses the per-class starting stats out of baseStatsFile, which
// must already have been loaded via LoadAll.
func (l *Loader) BaseStats() ([NumCharacterClasses]stats, error) {
	var baseStats [NumCharacterClasses]stats

	data, ok := l.Get(baseStatsFile)
	if !ok {
		return baseStats, fmt.Errorf("%s has not been loaded", baseStatsFile)
	}
	if len(data) < NumCharacterClasses*statsRecordSize {
		return baseStats, fmt.Errorf("%s is too short to hold %d class records", baseStatsFile, NumCharacterClasses)
	}

	for i := 0; i < NumCharacterClasses; i++ {
		bytes.StructFromBytes(data[i*statsRecordSize:], &baseStats[i])
	}
	return baseStats, nil
}
