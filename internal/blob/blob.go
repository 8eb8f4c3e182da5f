// Package blob stores attachment bytes. Only put, get and delete are needed.
package blob

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

//go:generate mockgen -source=blob.go -destination=mock/blob_mock.go -package=mock
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
