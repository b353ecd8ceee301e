package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Operation identifies which codec direction a CompressionJob recorded.
type Operation string

const (
	OperationCompress   Operation = "compress"
	OperationDecompress Operation = "decompress"
)

// CompressionJob is an audit record of one compress or decompress run: which
// file it touched, how big the input and output were, and the CRC-32 of the
// decompressed bytes so a later run can detect drift.
type CompressionJob struct {
	ID uint64 `gorm:"primaryKey"`

	Operation  Operation `gorm:"not null"`
	SourcePath string    `gorm:"not null"`
	OutputPath string
	InputSize  int
	OutputSize int
	Checksum   uint32

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt
}

// CreateCompressionJob persists the CompressionJob record.
func CreateCompressionJob(db *gorm.DB, job *CompressionJob) error {
	return db.Create(job).Error
}

// FindCompressionJob returns the job with the given ID, or nil if none exists.
func FindCompressionJob(db *gorm.DB, id uint64) (*CompressionJob, error) {
	var job CompressionJob
	err := db.First(&job, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindRecentCompressionJobs returns up to limit jobs, most recent first.
func FindRecentCompressionJobs(db *gorm.DB, limit int) ([]CompressionJob, error) {
	var jobs []CompressionJob
	err := db.Order("created_at desc").Limit(limit).Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindUnscopedCompressionJob searches for a potentially soft-deleted job by ID.
func FindUnscopedCompressionJob(db *gorm.DB, id uint64) (*CompressionJob, error) {
	var job CompressionJob
	err := db.Unscoped().First(&job, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// DeleteCompressionJob soft-deletes a CompressionJob record.
func DeleteCompressionJob(db *gorm.DB, job *CompressionJob) error {
	return db.Delete(job).Error
}

// PermanentlyDeleteCompressionJob permanently deletes a CompressionJob record.
func PermanentlyDeleteCompressionJob(db *gorm.DB, job *CompressionJob) error {
	return db.Unscoped().Delete(job).Error
}
