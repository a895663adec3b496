// Package accel builds and traverses the k-d tree acceleration
// structure over a scene's global triangle array, using SIMD-friendly
// triangle packets at the leaves.
package accel

import (
	"math"

	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
)

// PacketWidth is the lane width of a triangle packet. Go has no
// portable SIMD intrinsic layer in the standard toolchain, so this is
// a plain constant and lane operations below are ordinary loops; the
// structure-of-arrays layout and masking semantics stay independent of
// any particular instruction set.
const PacketWidth = 8

// Packet is a structure-of-arrays bundle of up to PacketWidth triangles
// tested against one ray in parallel. Underfilled packets duplicate the
// last valid triangle into spare lanes so a masked-out lane can never
// spuriously become the best hit.
type Packet struct {
	V0X, V0Y, V0Z [PacketWidth]float64
	E1X, E1Y, E1Z [PacketWidth]float64
	E2X, E2Y, E2Z [PacketWidth]float64
	TriangleIndex [PacketWidth]int
}

// BuildPacket fills a Packet from up to PacketWidth global triangle
// indices, duplicating the last triangle into any spare lanes.
func BuildPacket(triangles []models.Triangle, indices []int) Packet {
	var p Packet
	for lane := 0; lane < PacketWidth; lane++ {
		i := lane
		if i >= len(indices) {
			i = len(indices) - 1
		}
		tri := triangles[indices[i]]
		p.V0X[lane], p.V0Y[lane], p.V0Z[lane] = tri.V0.X, tri.V0.Y, tri.V0.Z
		p.E1X[lane], p.E1Y[lane], p.E1Z[lane] = tri.E1.X, tri.E1.Y, tri.E1.Z
		p.E2X[lane], p.E2Y[lane], p.E2Z[lane] = tri.E2.X, tri.E2.Y, tri.E2.Z
		p.TriangleIndex[lane] = indices[i]
	}
	return p
}

// Intersect runs the Moller-Trumbore test lane-parallel against ray,
// returning an active-lane mask and u/v/t per lane. Lanes failing any
// reject test are left with mask[lane] = false and their u, v, t are
// not written (they stay zero).
func (p *Packet) Intersect(r math3d.Ray, backfaceCulling bool, eps float64) (mask [PacketWidth]bool, u, v, t [PacketWidth]float64) {
	for lane := 0; lane < PacketWidth; lane++ {
		pvecX := r.Direction.Y*p.E2Z[lane] - r.Direction.Z*p.E2Y[lane]
		pvecY := r.Direction.Z*p.E2X[lane] - r.Direction.X*p.E2Z[lane]
		pvecZ := r.Direction.X*p.E2Y[lane] - r.Direction.Y*p.E2X[lane]

		det := p.E1X[lane]*pvecX + p.E1Y[lane]*pvecY + p.E1Z[lane]*pvecZ

		var active bool
		if backfaceCulling {
			active = eps <= det
		} else {
			active = eps <= math.Abs(det)
		}
		if !active {
			mask[lane] = false
			continue
		}

		invDet := 1 / det

		tvecX := r.Origin.X - p.V0X[lane]
		tvecY := r.Origin.Y - p.V0Y[lane]
		tvecZ := r.Origin.Z - p.V0Z[lane]

		lu := (tvecX*pvecX + tvecY*pvecY + tvecZ*pvecZ) * invDet
		if lu < 0 || lu > 1 {
			mask[lane] = false
			continue
		}

		qvecX := tvecY*p.E1Z[lane] - tvecZ*p.E1Y[lane]
		qvecY := tvecZ*p.E1X[lane] - tvecX*p.E1Z[lane]
		qvecZ := tvecX*p.E1Y[lane] - tvecY*p.E1X[lane]

		lv := (r.Direction.X*qvecX + r.Direction.Y*qvecY + r.Direction.Z*qvecZ) * invDet
		if lv < 0 || lu+lv > 1 {
			mask[lane] = false
			continue
		}

		lt := (p.E2X[lane]*qvecX + p.E2Y[lane]*qvecY + p.E2Z[lane]*qvecZ) * invDet
		if lt <= eps {
			mask[lane] = false
			continue
		}

		mask[lane] = true
		u[lane], v[lane], t[lane] = lu, lv, lt
	}
	return mask, u, v, t
}
