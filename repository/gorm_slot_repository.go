package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"NovaStream/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormSlotRepository stores slots in the kv_slots table (MySQL or Postgres).
type gormSlotRepository struct {
	db *gorm.DB
}

// NewGormSlotRepository creates a GORM-backed SlotRepository. The table is
// expected to exist (db.ConnectGormDB migrates it).
func NewGormSlotRepository(db *gorm.DB) SlotRepository {
	return &gormSlotRepository{db: db}
}

func (r *gormSlotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var slot model.KVSlot
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return slot.Value, true, nil
}

func (r *gormSlotRepository) Set(ctx context.Context, key string, value []byte) error {
	slot := model.KVSlot{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to set slot %s: %w", key, err)
	}
	return nil
}

func (r *gormSlotRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Delete(&model.KVSlot{Key: key}).Error
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (r *gormSlotRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
