// Package media stores uploaded files behind a small Storage interface.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"
)

// ErrNotFound is returned when a key has no stored file.
var ErrNotFound = errors.New("media: file not found")

// Storage persists uploaded files under slash-separated keys such as "posts/cat.png".
type Storage interface {
	// Save stores r under name and returns the key actually used, which
	// differs from name when name is already taken.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var unsafeFilenameChars = regexp.MustCompile(`[^-\p{L}\p{N}_.]`)

// ValidFilename reduces an uploaded filename to its base name made of
// letters, digits, '-', '_' and '.' with spaces turned into underscores.
func ValidFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	return name
}

// CleanKey validates a storage key coming from a URL.
func CleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, `\`) {
		return "", false
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", false
	}
	return cleaned, true
}

// alternateName inserts suffix between the stem and the extension of name.
func alternateName(name, suffix string) string {
	dir, file := path.Split(name)
	ext := path.Ext(file)
	return dir + strings.TrimSuffix(file, ext) + "_" + suffix + ext
}
