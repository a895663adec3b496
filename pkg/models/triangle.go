package models

import (
	"math"

	"raytracer/pkg/math3d"
)

// Epsilon is the default intersection tolerance. The render options
// record carries the value actually threaded through the accelerator;
// this constant seeds its default and serves callers with no options
// in hand.
const Epsilon = 1e-6

// Triangle is an immutable geometric primitive: three vertex positions,
// precomputed edge vectors and face normal, the owning mesh's index and
// the corners' vertex indices into it, a per-corner UV triple, and a
// bounding box. It
// never mutates after construction.
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	E1, E2     math3d.Vec3
	Normal     math3d.Vec3
	Vertices   [3]int
	MeshIndex  int
	UV         [3]math3d.Vec2
	Box        math3d.AABB
}

// NewTriangle builds a Triangle from three vertex positions and their
// mesh-local indices, precomputing edges, face normal, and bbox.
func NewTriangle(v0, v1, v2 math3d.Vec3, indices [3]int, meshIndex int, uv [3]math3d.Vec2) Triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	box := math3d.NewAABB().Expand(v0).Expand(v1).Expand(v2)
	return Triangle{
		V0: v0, V1: v1, V2: v2,
		E1: e1, E2: e2,
		Normal:    e1.Cross(e2).Normalize(),
		Vertices:  indices,
		MeshIndex: meshIndex,
		UV:        uv,
		Box:       box,
	}
}

// Hit is the result of a ray/triangle intersection.
type Hit struct {
	T, U, V float64
}

// Intersect runs the Moller-Trumbore test against ray with tolerance
// eps, returning a Hit and true on success. With backfaceCulling set,
// a triangle facing away from the ray (det <= eps rather than
// |det| <= eps) is rejected.
func (tr Triangle) Intersect(r math3d.Ray, backfaceCulling bool, eps float64) (Hit, bool) {
	pvec := r.Direction.Cross(tr.E2)
	det := tr.E1.Dot(pvec)

	if backfaceCulling {
		if det <= eps {
			return Hit{}, false
		}
	} else if math.Abs(det) <= eps {
		return Hit{}, false
	}

	invDet := 1 / det
	tvec := r.Origin.Sub(tr.V0)

	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	qvec := tvec.Cross(tr.E1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	t := tr.E2.Dot(qvec) * invDet
	if t <= eps {
		return Hit{}, false
	}

	return Hit{T: t, U: u, V: v}, true
}
