// Package math3d provides the vector, matrix, ray, and bounding-box
// math the renderer's geometry and integrator build on.
package math3d

import "math"

// Vec3 is a 3-component vector over float64, used for both world-space
// points and directions. Components are addressable by name or, for
// axis-generic code like the slab test, by index via Get.
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3 from its components.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Get returns component i (0=X, 1=Y, 2=Z). Out-of-range indices fold
// onto Z, which keeps the axis-cycling callers branch-free.
func (v Vec3) Get(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product v . o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector along v, or the zero vector when v
// has no direction to normalize.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{
		X: math.Min(v.X, o.X),
		Y: math.Min(v.Y, o.Y),
		Z: math.Min(v.Z, o.Z),
	}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{
		X: math.Max(v.X, o.X),
		Y: math.Max(v.Y, o.Y),
		Z: math.Max(v.Z, o.Z),
	}
}

// Inv returns the component-wise reciprocal 1/v. A zero component
// yields +/-Inf, which the AABB slab test relies on to handle rays
// parallel to a slab without a branch.
func (v Vec3) Inv() Vec3 {
	return Vec3{1 / v.X, 1 / v.Y, 1 / v.Z}
}
