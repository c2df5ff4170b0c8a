package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/huddle/internal/domain"
	"gorm.io/gorm"
)

// RoomCatalog owns room creation and the name<->id mapping.
type RoomCatalog struct {
	db *gorm.DB
}

func NewRoomCatalog(db *gorm.DB) *RoomCatalog {
	return &RoomCatalog{db: db}
}

// Exists resolves name to its room, or domain.ErrRoomNotFound.
func (c *RoomCatalog) Exists(ctx context.Context, name domain.RoomName) (domain.Room, error) {
	var rec roomRecord
	if err := c.db.WithContext(ctx).Where("name = ?", string(name)).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Room{}, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, name)
		}
		return domain.Room{}, fmt.Errorf("%w: lookup room %s: %w", domain.ErrStorage, name, err)
	}
	return toRoom(rec), nil
}

func (c *RoomCatalog) Create(ctx context.Context, name domain.RoomName) (domain.Room, error) {
	if err := domain.ValidateRoomName(name); err != nil {
		return domain.Room{}, err
	}
	db := c.db.WithContext(ctx)
	var existing roomRecord
	res := db.Where("name = ?", string(name)).Limit(1).Find(&existing)
	if res.Error != nil {
		return domain.Room{}, fmt.Errorf("%w: lookup room %s: %w", domain.ErrStorage, name, res.Error)
	}
	if res.RowsAffected > 0 {
		return domain.Room{}, fmt.Errorf("%w: %s", domain.ErrRoomExists, name)
	}
	rec := roomRecord{Name: string(name)}
	if err := db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Room{}, fmt.Errorf("%w: %s", domain.ErrRoomExists, name)
		}
		return domain.Room{}, fmt.Errorf("%w: create room %s: %w", domain.ErrStorage, name, err)
	}
	return toRoom(rec), nil
}

func (c *RoomCatalog) List(ctx context.Context) ([]domain.Room, error) {
	var recs []roomRecord
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: list rooms: %w", domain.ErrStorage, err)
	}
	out := make([]domain.Room, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRoom(rec))
	}
	return out, nil
}

func toRoom(rec roomRecord) domain.Room {
	return domain.Room{ID: domain.RoomID(rec.ID), Name: domain.RoomName(rec.Name)}
}
