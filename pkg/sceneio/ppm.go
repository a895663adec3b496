package sceneio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"raytracer/pkg/render"
)

// WritePPMFile writes img to path in ASCII PPM (P3) format.
func WritePPMFile(path string, img *render.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sceneio: create %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WritePPM(w, img); err != nil {
		return err
	}
	return w.Flush()
}

// WritePPM writes img to w as an ASCII PPM (P3): a three-line header
// (magic, dimensions, max channel value) followed by one row per
// image row, each pixel's three channels space-separated and each
// pixel separated from the next by a tab.
func WritePPM(w io.Writer, img *render.Image) error {
	if _, err := fmt.Fprintf(w, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.At(x, y).Bytes()
			sep := "\t"
			if x == img.Width-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%d %d %d%s", r, g, b, sep); err != nil {
				return err
			}
		}
	}
	return nil
}
