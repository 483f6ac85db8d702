// Package imagecodec turns stored canvas payloads into fingerprint handles.
//
// Browsers submit either a data URL from canvas.toDataURL or the raw RGBA
// array from getImageData. Both are decoded lazily, once, the first time a
// comparator asks for the image.
package imagecodec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/canvasprint/canvasprint/internal/fingerprint"
)

// MaxPixelWidth bounds the width of a pixel payload. Canvas implementations
// cap dimensions well below it.
const MaxPixelWidth = 1 << 16

var (
	// ErrEmptyPayload is returned when there is nothing to decode.
	ErrEmptyPayload = errors.New("empty image payload")
	// ErrBadPixels is returned for malformed pixel arrays.
	ErrBadPixels = errors.New("malformed pixel data")
)

// lazy decodes once and caches the outcome, including failures.
type lazy struct {
	once   sync.Once
	decode func() (image.Image, error)
	img    image.Image
	err    error
}

func (l *lazy) Decode() (image.Image, error) {
	l.once.Do(func() {
		l.img, l.err = l.decode()
	})
	return l.img, l.err
}

func newLazy(fn func() (image.Image, error)) fingerprint.Handle {
	return &lazy{decode: fn}
}

// FromDataURL returns a handle for a "data:image/...;base64," URL. A bare
// base64 string is accepted as well.
func FromDataURL(s string) fingerprint.Handle {
	return newLazy(func() (image.Image, error) {
		data, err := DataURLBytes(s)
		if err != nil {
			return nil, err
		}
		return decodeBytes(data)
	})
}

// FromBytes returns a handle for an encoded image held in memory.
func FromBytes(data []byte) fingerprint.Handle {
	return newLazy(func() (image.Image, error) {
		return decodeBytes(data)
	})
}

// FromFile returns a handle that reads and decodes path on first use.
func FromFile(path string) fingerprint.Handle {
	return newLazy(func() (image.Image, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return decodeBytes(data)
	})
}

// DataURLBytes strips the data URL header and base64-decodes the rest.
func DataURLBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyPayload
	}

	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, fmt.Errorf("invalid data URL: missing comma")
		}
		header := s[5:comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("invalid data URL: only base64 payloads are supported")
		}
		s = s[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

func decodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// pixelObject is the self-describing pixel payload.
type pixelObject struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Data   []int64 `json:"data"`
}

// FromPixels returns a handle for a getImageData pixel array. raw is either a
// JSON array of RGBA bytes, in which case width must be positive, or an
// object {"width", "height", "data"}.
func FromPixels(raw string, width int) fingerprint.Handle {
	return newLazy(func() (image.Image, error) {
		return DecodePixels(raw, width)
	})
}

// DecodePixels parses raw into a non-premultiplied RGBA image.
func DecodePixels(raw string, width int) (image.Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyPayload
	}

	var obj pixelObject
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPixels, err)
		}
	} else {
		if err := json.Unmarshal([]byte(raw), &obj.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPixels, err)
		}
		obj.Width = width
	}

	if obj.Width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive", ErrBadPixels)
	}
	if obj.Width > MaxPixelWidth {
		return nil, fmt.Errorf("%w: width %d exceeds %d", ErrBadPixels, obj.Width, MaxPixelWidth)
	}
	if len(obj.Data)%(4*obj.Width) != 0 {
		return nil, fmt.Errorf("%w: %d values do not form rows of width %d", ErrBadPixels, len(obj.Data), obj.Width)
	}
	height := len(obj.Data) / (4 * obj.Width)
	if obj.Height != 0 && obj.Height != height {
		return nil, fmt.Errorf("%w: expected height %d, got %d", ErrBadPixels, obj.Height, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, obj.Width, height))
	for i, v := range obj.Data {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: value %d at index %d out of range", ErrBadPixels, v, i)
		}
		img.Pix[i] = uint8(v)
	}
	return img, nil
}

// Canvas picks the best available payload of a stored canvas: the encoded
// image when present, otherwise the pixel array.
func Canvas(png, pixels string, width int) fingerprint.Handle {
	if strings.TrimSpace(png) != "" {
		return FromDataURL(png)
	}
	return FromPixels(pixels, width)
}
