// Package media normalizes uploaded job photos before they are stored.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
)

const (
	MaxDimension = 1920
	Quality      = 80
	ContentType  = "image/webp"
	Extension    = ".webp"
)

// Media types a photo can be tagged with.
const (
	TypeBefore   = "Before"
	TypeAfter    = "After"
	TypeProgress = "Progress"
)

var ErrNotImage = errors.New("upload is not a decodable image")

// ParseType accepts any casing and returns the canonical spelling.
func ParseType(raw string) (string, error) {
	for _, t := range []string{TypeBefore, TypeAfter, TypeProgress} {
		if strings.EqualFold(strings.TrimSpace(raw), t) {
			return t, nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeInvalidMediaType)
}

// Normalize decodes a JPEG, PNG or WebP upload, shrinks it so neither side
// exceeds MaxDimension and re-encodes it as lossy WebP.
func Normalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	img := downscale(src, MaxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func downscale(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
