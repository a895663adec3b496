package render

import (
	"math"

	"raytracer/pkg/math3d"
	"raytracer/pkg/scene"
)

// PrimaryRay builds the camera ray for pixel (x, y) sampled at the
// sub-pixel offset (sampleX, sampleY) (pixel-local, in [0, 1)). The
// direction is normalized; the orientation matrix's transpose carries
// camera-local axes to world axes.
func PrimaryRay(cam scene.Camera, width, height int, x, y int, sampleX, sampleY, fovDegrees float64) math3d.Ray {
	rasterX := float64(x) + sampleX
	rasterY := float64(y) + sampleY

	ndcX := rasterX / float64(width)
	ndcY := rasterY / float64(height)

	screenX := 2*ndcX - 1
	screenY := 1 - 2*ndcY

	screenX *= float64(width) / float64(height)

	fovRadians := fovDegrees * math.Pi / 180
	tanHalfFOV := math.Tan(fovRadians / 2)
	screenX *= tanHalfFOV
	screenY *= tanHalfFOV

	local := math3d.V3(screenX, screenY, -1)
	direction := cam.Orientation.TransformDirection(local).Normalize()

	return math3d.NewRay(cam.Position, direction)
}

// SamplePixelOffset returns the sub-pixel offset for one of sampleCount
// total samples: the pixel center when there is exactly one
// sample, otherwise an RNG-jittered offset.
func SamplePixelOffset(sampleCount int, rng *RNG) (x, y float64) {
	if sampleCount == 1 {
		return 0.5, 0.5
	}
	return rng.Float64(), rng.Float64()
}
