// Package render drives the per-pixel camera-ray loop: primary ray
// generation, the recursive shading integrator, the thread-local RNG,
// the linear-space image buffer, and the parallel tile-consuming
// worker pool that ties them together.
package render

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"raytracer/pkg/accel"
	"raytracer/pkg/color"
	"raytracer/pkg/config"
	"raytracer/pkg/scene"
	"raytracer/pkg/tile"
)

// Schedule selects one of the three tile-partitioning strategies.
type Schedule int

const (
	ScheduleSingle Schedule = iota
	ScheduleRegion
	ScheduleBucket
)

const defaultBucketSize = 64

// Render allocates the output image, builds the tile queue for
// schedule, spawns one worker per hardware thread, and joins. The
// scene and accelerator are read-only for the duration and shared by
// reference among workers; each worker writes only the pixels in the
// tiles it pops.
func Render(scn *scene.Scene, acc *accel.Accelerator, opts config.Options, schedule Schedule) (*Image, error) {
	width, height := scn.Settings.Width, scn.Settings.Height
	img := NewImage(width, height, scn.Settings.Background)

	workers := runtime.NumCPU()

	bucketSize := scn.Settings.BucketSize
	if bucketSize <= 0 {
		bucketSize = defaultBucketSize
	}

	var queue *tile.Queue
	switch schedule {
	case ScheduleSingle:
		queue = tile.SingleSchedule(width, height)
	case ScheduleRegion:
		queue = tile.RegionSchedule(width, height, workers)
	default:
		queue = tile.BucketSchedule(width, height, bucketSize)
	}

	var g errgroup.Group
	for workerID := 0; workerID < workers; workerID++ {
		workerID := workerID
		g.Go(func() error {
			runWorker(scn, acc, opts, queue, img, workerID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

// runWorker pops tiles until the queue reports empty, computing every
// pixel in row-major order within each tile for cache locality. Pixel
// outputs are independent and require no cross-tile synchronization.
func runWorker(scn *scene.Scene, acc *accel.Accelerator, opts config.Options, queue *tile.Queue, img *Image, workerID int) {
	rng := newWorkerRNG(opts, workerID)

	for {
		t, ok := queue.Pop()
		if !ok {
			return
		}

		for y := t.Y0; y < t.Y1; y++ {
			for x := t.X0; x < t.X1; x++ {
				img.Set(x, y, renderPixel(scn, acc, opts, x, y, rng))
			}
		}
	}
}

// renderPixel averages opts.SamplesPerPixel camera-ray samples for
// pixel (x, y), using the pixel center when there is exactly one
// sample and an RNG-jittered offset otherwise.
func renderPixel(scn *scene.Scene, acc *accel.Accelerator, opts config.Options, x, y int, rng *RNG) color.Color {
	final := color.Black()

	for s := 0; s < opts.SamplesPerPixel; s++ {
		sampleX, sampleY := SamplePixelOffset(opts.SamplesPerPixel, rng)
		ray := PrimaryRay(scn.Camera, scn.Settings.Width, scn.Settings.Height, x, y, sampleX, sampleY, opts.FOVDegrees)

		hit, ok := acc.Trace(ray, true, math.Inf(1), opts.Epsilon)
		if !ok {
			final = final.Add(scn.Settings.Background)
			continue
		}
		final = final.Add(Shade(acc, scn, hit, 0, opts, rng))
	}

	return final.Scale(1 / float64(opts.SamplesPerPixel))
}

// newWorkerRNG lazily seeds one worker's thread-local generator: a
// distinct deterministic seed per worker when opts.FixedRNGSeed is
// set, otherwise entropy.
func newWorkerRNG(opts config.Options, workerID int) *RNG {
	if opts.FixedRNGSeed != nil {
		return NewRNG(*opts.FixedRNGSeed + int64(workerID))
	}
	return NewEntropyRNG()
}
