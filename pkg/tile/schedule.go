package tile

import "math"

// SingleSchedule builds a queue holding one tile covering the full
// image.
func SingleSchedule(width, height int) *Queue {
	q := &Queue{}
	q.Push(Tile{0, 0, width, height})
	return q
}

// RegionSchedule partitions the image into a ceil(sqrt(n)) x
// ceil(sqrt(n)) grid, where n is the worker count, clipping tiles at
// the right/bottom edges.
func RegionSchedule(width, height, workers int) *Queue {
	side := int(math.Ceil(math.Sqrt(float64(workers))))
	if side < 1 {
		side = 1
	}
	tileWidth := ceilDiv(width, side)
	tileHeight := ceilDiv(height, side)

	q := &Queue{}
	for ty := 0; ty < side; ty++ {
		for tx := 0; tx < side; tx++ {
			x0 := tx * tileWidth
			y0 := ty * tileHeight
			x1 := min(x0+tileWidth, width)
			y1 := min(y0+tileHeight, height)
			if x0 < x1 && y0 < y1 {
				q.Push(Tile{x0, y0, x1, y1})
			}
		}
	}
	return q
}

// BucketSchedule tiles the image with fixed bucketSize x bucketSize
// squares, clipped at the edges.
func BucketSchedule(width, height, bucketSize int) *Queue {
	q := &Queue{}
	for ty := 0; ty < height; ty += bucketSize {
		for tx := 0; tx < width; tx += bucketSize {
			q.Push(Tile{
				X0: tx,
				Y0: ty,
				X1: min(tx+bucketSize, width),
				Y1: min(ty+bucketSize, height),
			})
		}
	}
	return q
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
