package repository

import "context"

// SlotRepository is a keyed store of serialized state slots.
// Get reports absence with ok=false rather than an error.
type SlotRepository interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
