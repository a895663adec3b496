package render

import "raytracer/pkg/color"

// Image is an immutable-size height x width buffer of linear-space
// colors, written in disjoint tile regions by workers and consumed by
// the PPM writer after join.
type Image struct {
	Width, Height int
	Pixels        []color.Color
}

// NewImage allocates a Width x Height buffer pre-filled with
// background, the color every pixel a camera ray misses keeps.
func NewImage(width, height int, background color.Color) *Image {
	pixels := make([]color.Color, width*height)
	for i := range pixels {
		pixels[i] = background
	}
	return &Image{Width: width, Height: height, Pixels: pixels}
}

// Set stores c at (x, y). Bounds are not checked: callers write only
// within their own tile, which is always in range by construction.
func (img *Image) Set(x, y int, c color.Color) {
	img.Pixels[y*img.Width+x] = c
}

// At returns the color at (x, y).
func (img *Image) At(x, y int) color.Color {
	return img.Pixels[y*img.Width+x]
}
