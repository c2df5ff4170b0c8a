// Package sqlite persists the message log, the room catalog and the user
// store in a single SQLite database through GORM.
package sqlite

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type roomRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
}

func (roomRecord) TableName() string { return "rooms" }

// messageRecord ids come from an AUTOINCREMENT column and are never reused.
type messageRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Content   string `gorm:"not null"`
	Username  string `gorm:"size:36;not null"`
	RoomID    int64  `gorm:"index;not null"`
	CreatedAt time.Time
}

func (messageRecord) TableName() string { return "messages" }

type userRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:36;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

// Open connects to the database at path. SQLite serializes writers, so the
// pool is capped at one connection.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&roomRecord{}, &messageRecord{}, &userRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
