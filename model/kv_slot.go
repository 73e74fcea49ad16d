package model

import "time"

// KVSlot is one persisted state slot in SQL backends.
type KVSlot struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (KVSlot) TableName() string {
	return "kv_slots"
}
