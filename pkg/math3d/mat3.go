package math3d

// Mat3 is a 3x3 matrix stored row-major, matching the scene file's
// 9-element row-major array layout for a camera's orientation matrix.
type Mat3 struct {
	M [9]float64
}

// NewMat3 builds a Mat3 from nine row-major elements.
func NewMat3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) Mat3 {
	return Mat3{[9]float64{m00, m01, m02, m10, m11, m12, m20, m21, m22}}
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return NewMat3(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	)
}

// Get returns the element at (row, col), zero-indexed.
func (a Mat3) Get(row, col int) float64 {
	return a.M[row*3+col]
}

// Set returns a copy of a with element (row, col) replaced by v.
func (a Mat3) Set(row, col int, v float64) Mat3 {
	a.M[row*3+col] = v
	return a
}

// Mul returns the matrix product a * b.
func (a Mat3) Mul(b Mat3) Mat3 {
	var res Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.Get(i, k) * b.Get(k, j)
			}
			res = res.Set(i, j, sum)
		}
	}
	return res
}

// MulVec3 returns the matrix-vector product a * v, treating v as a
// column vector.
func (a Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		a.Get(0, 0)*v.X + a.Get(0, 1)*v.Y + a.Get(0, 2)*v.Z,
		a.Get(1, 0)*v.X + a.Get(1, 1)*v.Y + a.Get(1, 2)*v.Z,
		a.Get(2, 0)*v.X + a.Get(2, 1)*v.Y + a.Get(2, 2)*v.Z,
	}
}

// Transpose returns the transpose of a.
func (a Mat3) Transpose() Mat3 {
	var res Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res = res.Set(j, i, a.Get(i, j))
		}
	}
	return res
}

// TransformDirection returns a^T * v. The camera's orientation matrix
// is stored such that its transpose carries camera-local axes to world
// axes, so primary-ray generation uses this rather than MulVec3.
func (a Mat3) TransformDirection(v Vec3) Vec3 {
	return a.Transpose().MulVec3(v)
}
