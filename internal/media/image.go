package media

import (
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned by DetectImage for content that is not an accepted image.
var ErrNotImage = errors.New("media: not a supported image")

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// DetectImage sniffs r and returns its MIME type if it is an accepted image.
func DetectImage(r io.Reader) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	for m := mt; m != nil; m = m.Parent() {
		if imageTypes[m.String()] {
			return m.String(), nil
		}
	}
	return "", ErrNotImage
}

// DetectContentType guesses the MIME type of the first bytes of a stored file.
func DetectContentType(head []byte) string {
	return mimetype.Detect(head).String()
}
