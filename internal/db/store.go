package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Record store keys. Each key holds one whole serialized collection.
const (
	KeyCars     = "luxedrive_cars"
	KeyUsers    = "luxedrive_users"
	KeyBookings = "luxedrive_bookings"
	KeyAuth     = "luxedrive_auth"
)

// ErrKeyNotFound is returned by a RecordStore when a key has never been set.
var ErrKeyNotFound = errors.New("key not found")

// RecordStore is a keyed persistent store of serialized values. There is no
// query capability; callers read a whole value and write a whole value back.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ReadCollection decodes the collection stored at key. An unset key yields an
// empty collection.
func ReadCollection[T any](ctx context.Context, store RecordStore, key string) ([]T, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	records := []T{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, nil
}

// WriteCollection replaces the whole collection stored at key.
func WriteCollection[T any](ctx context.Context, store RecordStore, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Bootstrap seeds the cars, users and bookings collections. A collection is
// written only when its key is absent, so existing state is never disturbed.
func Bootstrap(ctx context.Context, store RecordStore, seed Seed) error {
	if err := seedIfAbsent(ctx, store, KeyCars, seed.Cars); err != nil {
		return err
	}
	if err := seedIfAbsent(ctx, store, KeyUsers, seed.Users); err != nil {
		return err
	}
	return seedIfAbsent(ctx, store, KeyBookings, seed.Bookings)
}

func seedIfAbsent[T any](ctx context.Context, store RecordStore, key string, records []T) error {
	_, err := store.Get(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("check %s: %w", key, err)
	}
	return WriteCollection(ctx, store, key, records)
}
