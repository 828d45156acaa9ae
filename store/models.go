// Package store persists a fingerprint cache so repeated indexing runs
// skip files whose content hash hasn't changed since the last run, and
// serves the previously computed chunks straight back out of SQLite.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// FileRecord is one indexed source file, keyed by its path, with the
// content hash core.HashSource produced for it at index time.
type FileRecord struct {
	Path      string    `gorm:"primaryKey;type:varchar(1024)"`
	FileHash  string    `gorm:"type:varchar(16);index;not null"`
	IndexedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Chunks []ChunkRecord `gorm:"foreignKey:FilePath;references:Path"`
}

// ChunkRecord mirrors one core.Chunk, with its metadata flattened into
// indexable columns and the full chunk preserved as JSON for exact
// reconstruction.
type ChunkRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	FilePath   string `gorm:"type:varchar(1024);index;not null"`
	FileHash   string `gorm:"type:varchar(16);index;not null"`
	ObjectType string `gorm:"type:varchar(32);index"`
	ObjectID   int    `gorm:"index"`
	ObjectName string `gorm:"type:varchar(255)"`
	ChunkType  string `gorm:"type:varchar(16);index"`
	LineStart  int
	LineEnd    int

	// Payload is the full core.Chunk, serialized with encoding/json,
	// so a cache hit can be returned without re-deriving metadata.
	Payload datatypes.JSON `gorm:"type:jsonb"`
}

// TableName customizations for shorter, cache-specific table names.
func (FileRecord) TableName() string  { return "file_records" }
func (ChunkRecord) TableName() string { return "chunk_records" }
