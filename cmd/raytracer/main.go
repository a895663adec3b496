// Command raytracer renders a JSON scene file to a PPM image in one of
// two modes: a single timed still image (image.ppm) or, with -frames,
// a build-up animation sequence (output/frame_%04d.ppm) rendering an
// increasing triangle-count prefix of the scene each frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"raytracer/pkg/accel"
	"raytracer/pkg/config"
	"raytracer/pkg/render"
	"raytracer/pkg/scene"
	"raytracer/pkg/sceneio"
)

// triangleStep is how many additional triangles each build-up frame
// reveals.
const triangleStep = 25

func main() {
	frames := flag.Int("frames", 0, "render a build-up animation of this many frames instead of a single still")
	configPath := flag.String("config", "", "optional TOML file overriding the default render options")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] FILE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	scenePath := flag.Arg(0)

	opts := config.Default()
	if *configPath != "" {
		var err error
		opts, err = config.LoadOverlay(*configPath, opts)
		if err != nil {
			log.Fatalf("raytracer: %v", err)
		}
	}

	scn, err := sceneio.ParseFile(scenePath)
	if err != nil {
		log.Fatalf("raytracer: %v", err)
	}

	acc := accel.Build(scn.Meshes, 0, 0)

	if *frames > 0 {
		if err := renderBuildUp(scn, acc, opts, *frames); err != nil {
			log.Fatalf("raytracer: %v", err)
		}
		return
	}

	if err := renderStill(scn, acc, opts); err != nil {
		log.Fatalf("raytracer: %v", err)
	}
}

// renderStill renders one full-resolution image and writes it to
// image.ppm, logging the wall-clock render duration.
func renderStill(scn *scene.Scene, acc *accel.Accelerator, opts config.Options) error {
	start := time.Now()
	img, err := render.Render(scn, acc, opts, render.ScheduleBucket)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("rendering took %.3f seconds", time.Since(start).Seconds())

	return sceneio.WritePPMFile("image.ppm", img)
}

// renderBuildUp renders frameCount images, each revealing triangleStep
// more triangles than the last, and writes them to
// output/frame_%04d.ppm. The accelerator's triangle limit is restored
// to unlimited before returning.
func renderBuildUp(scn *scene.Scene, acc *accel.Accelerator, opts config.Options, frameCount int) error {
	if err := os.MkdirAll("output", 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	defer acc.SetTriangleLimit(-1)

	for frame := 1; frame <= frameCount; frame++ {
		acc.SetTriangleLimit(frame * triangleStep)

		img, err := render.Render(scn, acc, opts, render.ScheduleBucket)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", frame, err)
		}

		path := fmt.Sprintf("output/frame_%04d.ppm", frame)
		if err := sceneio.WritePPMFile(path, img); err != nil {
			return fmt.Errorf("write frame %d: %w", frame, err)
		}

		log.Printf("generated frame %d out of %d", frame, frameCount)
	}
	return nil
}
