// Package blob граница файлового хранилища изображений.
package blob

import (
	"context"
	"io"
)

// Store хранит изображения под непрозрачной ссылкой.
type Store interface {
	Save(ctx context.Context, name string, src io.Reader) (string, error)
	Exists(ref string) bool
	Open(ref string) (io.ReadCloser, error)
}
