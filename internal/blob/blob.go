// Package blob stores uploaded files under generated keys.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that would escape the store root.
var ErrInvalidKey = errors.New("invalid blob key")

// Store persists opaque objects.
type Store interface {
	// Put writes size bytes from body under key. size may be -1 if unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// NewKey returns a fresh object key of the form
// uploads/YYYY/MM/DD/<uuid><ext>, keeping the extension of filename.
func NewKey(now time.Time, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	now = now.UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}
