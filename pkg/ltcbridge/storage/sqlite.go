// Package storage keeps a catalog of past decode runs in SQLite, so a
// batch of dailies can be audited after the fact.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "ltcbridge.sqlite3"

const errCatalogNil = "catalog is nil"

// Record is one decode run: where the timecode came from, what it read,
// and how.
type Record struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SourcePath string `gorm:"index:idx_source" json:"source_path"`
	OutputPath string `json:"output_path"`
	Timecode   string `json:"timecode"`
	DropFrame  bool   `json:"drop_frame"`
	Method     string `gorm:"index:idx_method" json:"method"`
	SampleRate int    `json:"sample_rate"`
	DurationMs int    `json:"duration_ms"`
	CreatedAt  time.Time
}

// Catalog wraps the gorm handle plus the raw sql.DB for pool tuning and
// shutdown.
type Catalog struct {
	DB *gorm.DB
	db *sql.DB
}

// Open creates or opens the catalog database at dbPath, migrating the
// schema as needed.
func Open(dbPath string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Record{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Catalog{DB: db, db: sqlDB}, nil
}

// Close releases the underlying connection pool.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveRecord inserts a decode record, assigning an ID when the caller
// did not.
func (c *Catalog) SaveRecord(r *Record) error {
	if c == nil || c.DB == nil {
		return errors.New(errCatalogNil)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := c.DB.Create(r).Error; err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// ListRecords returns all records, newest first.
func (c *Catalog) ListRecords() ([]Record, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errCatalogNil)
	}
	var records []Record
	if err := c.DB.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// GetRecordByID fetches one record.
func (c *Catalog) GetRecordByID(id string) (*Record, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errCatalogNil)
	}
	var record Record
	if err := c.DB.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("record %s not found", id)
		}
		return nil, fmt.Errorf("querying record: %w", err)
	}
	return &record, nil
}

// DeleteRecordByID removes one record.
func (c *Catalog) DeleteRecordByID(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errCatalogNil)
	}
	res := c.DB.Delete(&Record{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}
