// Package storage uploads donor documents to an object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrDisabled = errors.New("document storage is not configured")

// FileStorage is implemented by every backend.
type FileStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Key builds the object key for a user's document. Only the base name of
// fileName is kept.
func Key(userID, documentID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return fmt.Sprintf("users/%s/documents/%s/%s", userID, documentID, name)
}
