package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestLoadEmbeddedSample(t *testing.T) {
	for _, name := range []string{SamplePNG, "assets/" + SamplePNG} {
		img, err := LoadEmbeddedImage(name)
		if err != nil {
			t.Fatalf("LoadEmbeddedImage(%q): %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 68 || b.Dy() != 68 {
			t.Fatalf("unexpected sample size %v", b)
		}
	}
	if _, err := LoadFile(SampleSheet); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
}

func TestLoadImageFormats(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})

	tests := []struct {
		name   string
		encode func(*bytes.Buffer) error
	}{
		{"tiles.png", func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{"tiles.bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			path := filepath.Join(t.TempDir(), tt.name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			img, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage: %v", err)
			}
			if img.Bounds() != src.Bounds() {
				t.Fatalf("expected %v, got %v", src.Bounds(), img.Bounds())
			}
			if r, g, _, _ := img.At(1, 1).RGBA(); r>>8 != 255 || g != 0 {
				t.Fatalf("pixel not preserved, r=%d g=%d", r>>8, g>>8)
			}
		})
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadImage(junk); err == nil {
		t.Fatalf("expected decode error")
	}
}
