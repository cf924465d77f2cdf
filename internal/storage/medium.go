package storage

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrJobNotFound = errors.New("job not found")
)

// Medium is a synchronous key -> string store. Any error other than
// ErrKeyNotFound is treated as the medium being unavailable.
type Medium interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
