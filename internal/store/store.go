package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys. Every collection is persisted as one JSON blob; a
// mutation rewrites the whole blob. KeyInitialized marks first-run
// seeding so it only happens once.
const (
	KeyOrders      = "orders"
	KeyMenu        = "menu"
	KeyBranches    = "branches"
	KeySettings    = "settings"
	KeyReceipts    = "receipts"
	KeyRatings     = "ratings"
	KeyInventory   = "inventory"
	KeyInitialized = "initialized"
)

// KeyValueStore is the persistence contract every core component
// consumes. GetItem returns (nil, nil) when the key has never been
// written.
type KeyValueStore interface {
	SetItem(ctx context.Context, key string, value []byte) error
	GetItem(ctx context.Context, key string) ([]byte, error)
	RemoveItem(ctx context.Context, key string) error
}

// Load reads and decodes one collection. A missing key yields the
// default untouched; a read or decode failure yields the default and
// the error, so callers can log and degrade instead of failing.
func Load[T any](ctx context.Context, kv KeyValueStore, key string, def T) (T, error) {
	raw, err := kv.GetItem(ctx, key)
	if err != nil {
		return def, fmt.Errorf("get %s: %w", key, err)
	}
	if raw == nil {
		return def, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// Save encodes and writes one collection blob.
func Save[T any](ctx context.Context, kv KeyValueStore, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.SetItem(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
