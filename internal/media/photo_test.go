package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDownscalesLargePhotos(t *testing.T) {
	out, err := Normalize(pngOf(t, 4000, 2000))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if cfg.Width != MaxDimension || cfg.Height != 960 {
		t.Fatalf("expected %dx960, got %dx%d", MaxDimension, cfg.Width, cfg.Height)
	}
}

func TestNormalizeKeepsSmallPhotos(t *testing.T) {
	out, err := Normalize(pngOf(t, 64, 48))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Fatalf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType("before")
	if err != nil || got != TypeBefore {
		t.Fatalf("expected Before, got %q (%v)", got, err)
	}
	if _, err := ParseType("During"); !httperr.IsBusiness(err, httperr.CodeInvalidMediaType) {
		t.Fatalf("expected INVALID_MEDIA_TYPE, got %v", err)
	}
}
