package blob

import (
	"context"
	"errors"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type blobRow struct {
	Key       string `gorm:"primaryKey;type:varchar(64)"`
	Value     []byte `gorm:"type:blob;not null"`
	UpdatedAt time.Time
}

func (blobRow) TableName() string { return "blobs" }

// SQLiteStore keeps blobs as rows of a single key/value table.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&blobRow{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var row blobRow
	if err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoBlob
		}
		return nil, err
	}
	return row.Value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte) error {
	row := blobRow{Key: key, Value: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&blobRow{}, "key = ?", key).Error
}
