package sceneio

import (
	"bytes"
	"testing"

	"raytracer/pkg/color"
	"raytracer/pkg/render"
)

func TestWritePPMHeaderAndFormat(t *testing.T) {
	img := render.NewImage(2, 1, color.Black())
	img.Set(0, 0, color.New(1, 0, 0))
	img.Set(1, 0, color.New(0, 1, 0))

	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	want := "P3\n2 1\n255\n255 0 0\t0 255 0\n"
	if buf.String() != want {
		t.Fatalf("unexpected PPM output:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestWritePPMClampsOutOfRangeChannels(t *testing.T) {
	img := render.NewImage(1, 1, color.Black())
	img.Set(0, 0, color.New(2.0, -1.0, 0.5))

	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}

	want := "P3\n1 1\n255\n255 0 127\n"
	if buf.String() != want {
		t.Fatalf("unexpected clamped PPM output:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}
