// Package imagefile turns a picked image file into the opaque payload a
// product carries.
package imagefile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
)

// DefaultMaxBytes bounds the size of an encoded image.
const DefaultMaxBytes = 2 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image exceeds the size limit")
)

// Encoder builds data URLs from image files.
type Encoder struct {
	MaxBytes int64
}

// EncodeFile reads path and returns it as a data URL.
func (e Encoder) EncodeFile(path string) (domain.ImagePayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return e.Encode(f)
}

// Encode reads r to the end and returns it as a data URL. The content type is
// sniffed, never taken from a file name.
func (e Encoder) Encode(r io.Reader) (domain.ImagePayload, error) {
	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}
	return domain.ImagePayload("data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(raw)), nil
}
