package sceneio

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"raytracer/pkg/color"
	"raytracer/pkg/models"
)

// bitmapCacheSize bounds the number of distinct decoded bitmap textures
// kept resident at once; scenes rarely reference more than a handful of
// distinct image files even when many triangles share them.
const bitmapCacheSize = 64

var bitmapCache, _ = lru.New[string, *models.Bitmap](bitmapCacheSize)

// LoadBitmap decodes the image file at path into a linear-space
// models.Bitmap, caching the result by path so that multiple textures
// referencing the same file decode it only once. PNG, JPEG, BMP, and
// TIFF are supported via image.Decode's format registry.
func LoadBitmap(path string) (*models.Bitmap, error) {
	if cached, ok := bitmapCache.Get(path); ok {
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: open bitmap %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sceneio: decode bitmap %q: %w", path, err)
	}

	bmp := toBitmap(img)
	bitmapCache.Add(path, bmp)
	return bmp, nil
}

// toBitmap converts a decoded image.Image to [0,1] floats by plain
// channel scaling. image.Image's At returns alpha-premultiplied,
// gamma-encoded 16-bit channels; no sRGB decode is applied.
func toBitmap(img image.Image) *models.Bitmap {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	bmp := &models.Bitmap{
		Width:  width,
		Height: height,
		Pixels: make([]color.Color, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			bmp.Pixels[y*width+x] = color.New(
				float64(r)/0xffff,
				float64(g)/0xffff,
				float64(b)/0xffff,
			)
		}
	}
	return bmp
}
