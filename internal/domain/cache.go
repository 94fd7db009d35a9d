package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the port the completion cache and the submission tracker talk to.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites an existing item. An expiration of 0 keeps the item indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	// HGet returns ErrCacheMiss if either the key or the field is missing.
	HGet(ctx context.Context, key, field string) (string, error)

	HSet(ctx context.Context, key string, field string, value string) error

	Expire(ctx context.Context, key string, expiration time.Duration) error
}
