package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

// Cache is a fingerprint-keyed store of previously computed chunks,
// backed by a gorm.DB. Open returns one backed by a local, pure-Go SQLite
// file (no cgo); OpenRemote (store/remote.go) returns one backed by a
// shared libSQL database instead.
type Cache struct {
	db *gorm.DB
}

// Open connects to (creating if absent) a local SQLite cache file at path
// and migrates its schema.
func Open(path string, debug bool) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "store: create cache directory for %s", path)
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open cache %s", path)
	}

	return newCache(db)
}

func newCache(db *gorm.DB) (*Cache, error) {
	if err := db.AutoMigrate(&FileRecord{}, &ChunkRecord{}); err != nil {
		return nil, errors.Wrap(err, "store: migrate cache schema")
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup reports whether path is already cached under fileHash, returning
// its previously computed chunks when so. A miss (ok == false) means the
// caller should re-chunk the file and call Store.
func (c *Cache) Lookup(path, fileHash string) (chunks []core.Chunk, ok bool, err error) {
	var rec FileRecord
	result := c.db.Where("path = ? AND file_hash = ?", path, fileHash).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(result.Error, "store: lookup %s", path)
	}

	var records []ChunkRecord
	if err := c.db.Where("file_path = ? AND file_hash = ?", path, fileHash).Find(&records).Error; err != nil {
		return nil, false, errors.Wrapf(err, "store: load cached chunks for %s", path)
	}

	chunks = make([]core.Chunk, 0, len(records))
	for _, r := range records {
		var chunk core.Chunk
		if err := json.Unmarshal(r.Payload, &chunk); err != nil {
			return nil, false, errors.Wrapf(err, "store: decode cached chunk for %s", path)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, true, nil
}

// Store replaces any previously cached chunks for path with chunks, under
// fileHash. It is safe to call repeatedly as a file is re-indexed.
func (c *Cache) Store(path, fileHash string, chunks []core.Chunk) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("path = ?", path).Delete(&FileRecord{}).Error; err != nil {
			return errors.Wrapf(err, "store: clear prior record for %s", path)
		}
		if err := tx.Where("file_path = ?", path).Delete(&ChunkRecord{}).Error; err != nil {
			return errors.Wrapf(err, "store: clear prior chunks for %s", path)
		}

		rec := FileRecord{Path: path, FileHash: fileHash}
		if err := tx.Create(&rec).Error; err != nil {
			return errors.Wrapf(err, "store: record %s", path)
		}

		for _, chunk := range chunks {
			payload, err := json.Marshal(chunk)
			if err != nil {
				return errors.Wrapf(err, "store: encode chunk for %s", path)
			}
			cr := ChunkRecord{
				FilePath:   path,
				FileHash:   fileHash,
				ObjectType: string(chunk.Metadata.ObjectType),
				ObjectID:   chunk.Metadata.ObjectID,
				ObjectName: chunk.Metadata.ObjectName,
				ChunkType:  string(chunk.Metadata.ChunkType),
				LineStart:  chunk.Metadata.LineStart,
				LineEnd:    chunk.Metadata.LineEnd,
				Payload:    datatypes.JSON(payload),
			}
			if err := tx.Create(&cr).Error; err != nil {
				return errors.Wrapf(err, "store: persist chunk for %s", path)
			}
		}
		return nil
	})
}

// Stats reports how many files and chunks the cache currently holds.
func (c *Cache) Stats() (files, chunks int64, err error) {
	if err := c.db.Model(&FileRecord{}).Count(&files).Error; err != nil {
		return 0, 0, fmt.Errorf("store: count files: %w", err)
	}
	if err := c.db.Model(&ChunkRecord{}).Count(&chunks).Error; err != nil {
		return 0, 0, fmt.Errorf("store: count chunks: %w", err)
	}
	return files, chunks, nil
}
