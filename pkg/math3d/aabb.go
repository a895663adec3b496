package math3d

import "math"

// AABB is an axis-aligned bounding box. The zero value is not usable;
// construct with NewAABB so min/max start at (+Inf, -Inf) and expand
// correctly.
type AABB struct {
	Min, Max Vec3
}

// NewAABB returns an empty AABB ready for Expand/Unite accumulation.
func NewAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Expand grows the box to include point.
func (a AABB) Expand(point Vec3) AABB {
	return AABB{Min: a.Min.Min(point), Max: a.Max.Max(point)}
}

// Unite returns the union of a and other.
func (a AABB) Unite(other AABB) AABB {
	return AABB{Min: a.Min.Min(other.Min), Max: a.Max.Max(other.Max)}
}

// Contains reports whether point lies within the box on all three axes.
func (a AABB) Contains(point Vec3) bool {
	return a.Min.X <= point.X && point.X <= a.Max.X &&
		a.Min.Y <= point.Y && point.Y <= a.Max.Y &&
		a.Min.Z <= point.Z && point.Z <= a.Max.Z
}

// Intersects reports whether a and other overlap.
func (a AABB) Intersects(other AABB) bool {
	return other.Min.X < a.Max.X && a.Min.X <= other.Max.X &&
		other.Min.Y < a.Max.Y && a.Min.Y <= other.Max.Y &&
		other.Min.Z < a.Max.Z && a.Min.Z <= other.Max.Z
}

// Split halves the box along the midpoint of axis, promoting to
// (axis+1)%3 if the box has zero extent on that axis.
func (a AABB) Split(axis int) (AABB, AABB) {
	if a.Min.Get(axis) == a.Max.Get(axis) {
		return a.Split((axis + 1) % 3)
	}

	mid := a.Min.Get(axis) + (a.Max.Get(axis)-a.Min.Get(axis))/2

	lo, hi := a, a
	lo = lo.setMax(axis, mid)
	hi = hi.setMin(axis, mid)
	return lo, hi
}

func (a AABB) setMax(axis int, v float64) AABB {
	switch axis {
	case 0:
		a.Max.X = v
	case 1:
		a.Max.Y = v
	default:
		a.Max.Z = v
	}
	return a
}

func (a AABB) setMin(axis int, v float64) AABB {
	switch axis {
	case 0:
		a.Min.X = v
	case 1:
		a.Min.Y = v
	default:
		a.Min.Z = v
	}
	return a
}

// Intersect runs the slab test against ray, returning the entry
// distance t_min if the ray overlaps the box within [0, bound], else
// ok is false. bound is the caller's current best hit distance (pass
// +Inf to mean "no bound yet").
func (a AABB) Intersect(r Ray, bound float64) (tMin float64, ok bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		invD := r.InvDir.Get(axis)
		t0 := (a.Min.Get(axis) - r.Origin.Get(axis)) * invD
		t1 := (a.Max.Get(axis) - r.Origin.Get(axis)) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return 0, false
		}
	}

	// A ray starting inside the box enters it at distance zero; a box
	// entirely behind the ray (tmax < 0) is rejected.
	if tmin < 0 {
		tmin = 0
	}
	if tmin > tmax || tmin > bound {
		return 0, false
	}
	return tmin, true
}
