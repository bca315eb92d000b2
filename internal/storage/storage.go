// Package storage provides the key/value persistence used for the catalog.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("key not found")
	ErrUnavailable = errors.New("storage unavailable")
)

// Store defines the key/value operations the storefront needs.
// Get returns ErrNotFound when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
