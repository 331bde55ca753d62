// Package storage is the device's durable key-value store. Values are JSON
// documents; readers must tolerate absent or corrupt values.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys owned by the client components. Each key has exactly one writer.
const (
	KeyCart          = "tablefy_cart"
	KeyOfflineOrders = "tablefy_offline_orders"
	KeyAuth          = "tablefy_auth"
	KeyLastOrderID   = "tablefy_last_order_id"
	KeyLastTableID   = "tablefy_last_table_id"
)

// ErrNotJSON is returned by backends that only accept JSON documents.
var ErrNotJSON = errors.New("storage: value is not valid JSON")

// Storage is a synchronous string key-value store.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// LoadJSON decodes the value under key into v. It reports false when the key is
// absent, unreadable or does not decode, leaving v for the caller to default.
func LoadJSON(s Storage, key string, v any) bool {
	raw, ok, err := s.Get(key)
	if err != nil || !ok || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(s Storage, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
