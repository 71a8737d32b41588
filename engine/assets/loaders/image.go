package loaders

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	// Decoders register themselves with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/tessera/engine/renderer/metadata"
)

// Supported extensions in lookup priority order.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp", ".gif"}

// ImageExtensions returns the image extensions the loader decodes, in the
// order names without an extension are resolved.
func ImageExtensions() []string {
	out := make([]string, len(imageExtensions))
	copy(out, imageExtensions)
	return out
}

func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range imageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

type ImageLoader struct{}

func (il *ImageLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if !IsImageExtension(filepath.Ext(path)) {
		return nil, fmt.Errorf("image loader cannot decode '%s'", path)
	}

	flipY := false
	if typedParams, ok := params.(*metadata.ImageResourceParams); ok && typedParams != nil {
		flipY = typedParams.FlipY
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}

	data := toRGBA(img, flipY)

	return &metadata.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (il *ImageLoader) Unload(resource *metadata.Resource) error {
	if resource != nil {
		resource.Data = nil
		resource.DataSize = 0
	}
	return nil
}

// toRGBA converts any decoded image to tightly packed, non-premultiplied
// 8-bit RGBA rows.
func toRGBA(img image.Image, flipY bool) *metadata.ImageResourceData {
	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	width, height := bounds.Dx(), bounds.Dy()
	rowSize := width * 4
	pixels := make([]uint8, rowSize*height)
	for y := 0; y < height; y++ {
		srcY := y
		if flipY {
			srcY = height - 1 - y
		}
		src := rgba.Pix[srcY*rgba.Stride : srcY*rgba.Stride+rowSize]
		copy(pixels[y*rowSize:(y+1)*rowSize], src)
	}

	hasTransparency := false
	for i := 3; i < len(pixels); i += 4 {
		if pixels[i] < 255 {
			hasTransparency = true
			break
		}
	}

	return &metadata.ImageResourceData{
		ChannelCount:    4,
		Width:           uint32(width),
		Height:          uint32(height),
		HasTransparency: hasTransparency,
		Pixels:          pixels,
	}
}
