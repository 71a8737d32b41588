package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageLoaderDecodesRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	path := filepath.Join(t.TempDir(), "quad.png")
	writePNG(t, path, img)

	il := &ImageLoader{}
	res, err := il.Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := res.Data.(*metadata.ImageResourceData)
	if data.Width != 2 || data.Height != 2 || data.ChannelCount != 4 {
		t.Fatalf("unexpected dimensions %dx%dx%d", data.Width, data.Height, data.ChannelCount)
	}
	if len(data.Pixels) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(data.Pixels))
	}
	if data.Pixels[0] != 255 || data.Pixels[1] != 0 {
		t.Errorf("expected first pixel red, got %v", data.Pixels[0:4])
	}
	if data.HasTransparency {
		t.Error("expected opaque image")
	}
	if res.Name != "quad" {
		t.Errorf("expected resource name quad, got %q", res.Name)
	}
}

func TestImageLoaderFlipY(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 128})
	path := filepath.Join(t.TempDir(), "column.png")
	writePNG(t, path, img)

	il := &ImageLoader{}
	res, err := il.Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := res.Data.(*metadata.ImageResourceData)
	if data.Pixels[2] != 255 {
		t.Errorf("expected bottom (blue) row first after flip, got %v", data.Pixels[0:4])
	}
	if !data.HasTransparency {
		t.Error("expected transparency to be detected")
	}
}

func TestImageLoaderErrors(t *testing.T) {
	il := &ImageLoader{}
	dir := t.TempDir()

	if _, err := il.Load(filepath.Join(dir, "missing.png"), metadata.ResourceTypeImage, nil); err == nil {
		t.Error("expected error for missing file")
	}

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := il.Load(corrupt, metadata.ResourceTypeImage, nil); err == nil {
		t.Error("expected error for corrupt file")
	}

	if _, err := il.Load(filepath.Join(dir, "texture.dds"), metadata.ResourceTypeImage, nil); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsImageExtension(t *testing.T) {
	for _, ext := range []string{".png", ".JPG", ".webp", ".bmp", ".tiff"} {
		if !IsImageExtension(ext) {
			t.Errorf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".dds", ".tga", "", ".txt"} {
		if IsImageExtension(ext) {
			t.Errorf("expected %s to be unsupported", ext)
		}
	}
}
