// Package models provides the geometric primitives the renderer shades:
// triangles, meshes, materials, and textures.
package models

import (
	"raytracer/pkg/math3d"
)

// Mesh owns a vertex buffer, the triangle list built from it, and the
// per-vertex averaged normals and aggregate bbox derived at
// construction. A mesh is immutable once built.
type Mesh struct {
	MeshIndex       int
	MaterialIndex   int
	Vertices        []math3d.Vec3
	VertexNormals   []math3d.Vec3
	UVs             []math3d.Vec2
	Triangles       []Triangle
	TriangleNormals []math3d.Vec3
	Box             math3d.AABB
}

// NewMesh builds a Mesh from a flat vertex buffer, an optional UV
// buffer, and triangle vertex-index triples. meshIndex is the mesh's
// own position in the scene's mesh array, the back-reference a
// triangle carries to recover its owning mesh's vertex normals; it is
// never a hard owning link. Per-vertex normals are the unweighted sum
// of each incident triangle's face normal, normalized afterward; no
// weighting by triangle area or incident angle.
func NewMesh(meshIndex, materialIndex int, vertices []math3d.Vec3, uvs []math3d.Vec2, triangleIndices [][3]int) *Mesh {
	m := &Mesh{
		MeshIndex:       meshIndex,
		MaterialIndex:   materialIndex,
		Vertices:        vertices,
		UVs:             uvs,
		VertexNormals:   make([]math3d.Vec3, len(vertices)),
		Triangles:       make([]Triangle, len(triangleIndices)),
		TriangleNormals: make([]math3d.Vec3, len(triangleIndices)),
		Box:             math3d.NewAABB(),
	}

	for i, idx := range triangleIndices {
		v0 := vertices[idx[0]]
		v1 := vertices[idx[1]]
		v2 := vertices[idx[2]]

		// The parser accepts a uvs buffer shorter than the vertex
		// buffer; corners past its end keep the zero UV.
		var uv [3]math3d.Vec2
		for c, vi := range idx {
			if vi < len(uvs) {
				uv[c] = uvs[vi]
			}
		}

		tri := NewTriangle(v0, v1, v2, idx, meshIndex, uv)
		m.Triangles[i] = tri
		m.Box = m.Box.Unite(tri.Box)

		faceNormal := v1.Sub(v0).Cross(v2.Sub(v0))
		m.TriangleNormals[i] = faceNormal.Normalize()

		m.VertexNormals[idx[0]] = m.VertexNormals[idx[0]].Add(faceNormal)
		m.VertexNormals[idx[1]] = m.VertexNormals[idx[1]].Add(faceNormal)
		m.VertexNormals[idx[2]] = m.VertexNormals[idx[2]].Add(faceNormal)
	}

	for i, n := range m.VertexNormals {
		m.VertexNormals[i] = n.Normalize()
	}

	return m
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// ShadingNormal returns the per-vertex averaged normal interpolated at
// barycentric (u, v, w) over tri, following the hit record convention
// n = normalize(u*n1 + v*n2 + w*n0).
func (m *Mesh) ShadingNormal(tri Triangle, u, v, w float64) math3d.Vec3 {
	n0 := m.VertexNormals[tri.Vertices[0]]
	n1 := m.VertexNormals[tri.Vertices[1]]
	n2 := m.VertexNormals[tri.Vertices[2]]
	return n1.Scale(u).Add(n2.Scale(v)).Add(n0.Scale(w)).Normalize()
}
