package accel

import (
	"math"

	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
)

// EMPTY is the sentinel for an absent child/parent index or an absent
// leaf pack range.
const EMPTY = -1

const (
	defaultMaxDepth    = 8
	defaultMaxLeafSize = 64
)

// Node is a k-d tree node: a bounding box, two child indices (EMPTY if
// absent), and a leaf pack range (start_idx, pack_count) that is EMPTY
// and zero, respectively, for interior nodes.
type Node struct {
	Parent    int
	Box       math3d.AABB
	Child0    int
	Child1    int
	StartIdx  int
	PackCount int
}

// HitRecord is the result of an accelerator query: the originating ray,
// the world-space hit position, the interpolated shading normal, the
// geometric face normal, the triangle's per-corner UVs, the hit
// distance and barycentrics, and the owning mesh's index.
type HitRecord struct {
	Ray           math3d.Ray
	Position      math3d.Vec3
	ShadingNormal math3d.Vec3
	FaceNormal    math3d.Vec3
	UV            [3]math3d.Vec2
	T, U, V, W    float64
	MeshIndex     int
	TriangleIndex int
}

// Accelerator is a k-d tree built once over a scene's global triangle
// array (the concatenation of every mesh's triangles) and thereafter
// read-only.
type Accelerator struct {
	Meshes        []*models.Mesh
	Triangles     []models.Triangle
	Nodes         []Node
	Packets       []Packet
	MaxDepth      int
	MaxLeafSize   int
	triangleLimit int // EMPTY-as-int sentinel meaning "no limit" is -1; see SetTriangleLimit
}

// Build constructs the accelerator over the union of every mesh's
// triangles, using maxDepth/maxLeafSize as the recursive split cutoffs.
func Build(meshes []*models.Mesh, maxDepth, maxLeafSize int) *Accelerator {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	if maxLeafSize <= 0 {
		maxLeafSize = defaultMaxLeafSize
	}

	a := &Accelerator{
		Meshes:        meshes,
		MaxDepth:      maxDepth,
		MaxLeafSize:   maxLeafSize,
		triangleLimit: -1,
	}

	rootBox := math3d.NewAABB()
	var triangleIndices []int
	for _, mesh := range meshes {
		rootBox = rootBox.Unite(mesh.Box)
		start := len(a.Triangles)
		a.Triangles = append(a.Triangles, mesh.Triangles...)
		for i := range mesh.Triangles {
			triangleIndices = append(triangleIndices, start+i)
		}
	}

	a.Nodes = append(a.Nodes, Node{Parent: EMPTY, Box: rootBox, Child0: EMPTY, Child1: EMPTY, StartIdx: EMPTY, PackCount: 0})
	a.buildNode(0, 0, triangleIndices)

	return a
}

// SetTriangleLimit restricts traversal to global triangle indices below
// limit (exclusive of none, i.e. index < limit), supporting a build-up
// animation that renders the same tree as if only the first N
// triangles existed. Pass a negative limit to clear the restriction.
func (a *Accelerator) SetTriangleLimit(limit int) {
	if limit < 0 {
		a.triangleLimit = -1
		return
	}
	a.triangleLimit = limit
}

func (a *Accelerator) buildNode(parentIdx, depth int, triangleIndices []int) {
	if depth == a.MaxDepth || len(triangleIndices) <= a.MaxLeafSize {
		a.buildLeaf(parentIdx, triangleIndices)
		return
	}

	box0, box1 := a.Nodes[parentIdx].Box.Split(depth % 3)

	var child0Indices, child1Indices []int
	for _, idx := range triangleIndices {
		tri := a.Triangles[idx]
		if box0.Intersects(tri.Box) {
			child0Indices = append(child0Indices, idx)
		}
		if box1.Intersects(tri.Box) {
			child1Indices = append(child1Indices, idx)
		}
	}

	if len(child0Indices) > 0 {
		child0Idx := len(a.Nodes)
		a.Nodes = append(a.Nodes, Node{Parent: parentIdx, Box: box0, Child0: EMPTY, Child1: EMPTY, StartIdx: EMPTY, PackCount: 0})
		a.Nodes[parentIdx].Child0 = child0Idx
		a.buildNode(child0Idx, depth+1, child0Indices)
	}

	if len(child1Indices) > 0 {
		child1Idx := len(a.Nodes)
		a.Nodes = append(a.Nodes, Node{Parent: parentIdx, Box: box1, Child0: EMPTY, Child1: EMPTY, StartIdx: EMPTY, PackCount: 0})
		a.Nodes[parentIdx].Child1 = child1Idx
		a.buildNode(child1Idx, depth+1, child1Indices)
	}
}

func (a *Accelerator) buildLeaf(parentIdx int, triangleIndices []int) {
	firstPack := len(a.Packets)

	for i := 0; i < len(triangleIndices); i += PacketWidth {
		end := i + PacketWidth
		if end > len(triangleIndices) {
			end = len(triangleIndices)
		}
		a.Packets = append(a.Packets, BuildPacket(a.Triangles, triangleIndices[i:end]))
	}

	a.Nodes[parentIdx].StartIdx = firstPack
	a.Nodes[parentIdx].PackCount = len(a.Packets) - firstPack
}

// Trace runs a bounded closest-hit query with intersection tolerance
// eps: the returned hit, if any, has distance strictly less than
// bound. Passing +Inf for bound yields an ordinary closest-hit query;
// a caller walking shadow rays through transmissive surfaces instead
// passes the remaining max_t so the same traversal serves both query
// modes.
func (a *Accelerator) Trace(ray math3d.Ray, backfaceCulling bool, bound, eps float64) (HitRecord, bool) {
	bestT := bound
	bestU, bestV := math.Inf(1), math.Inf(1)
	bestPack, bestLane := EMPTY, EMPTY

	// A fixed-size local stack keeps the hot loop free of allocator
	// traffic; depth-first traversal of a tree this shallow never needs
	// more than a couple of entries per level.
	var stackBuf [4 * defaultMaxDepth]int
	stack := append(stackBuf[:0], 0)
	for len(stack) > 0 {
		nodeIdx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := a.Nodes[nodeIdx]

		tEntry, ok := node.Box.Intersect(ray, bestT)
		if !ok || bestT <= tEntry {
			continue
		}

		if node.StartIdx == EMPTY {
			if node.Child0 != EMPTY {
				stack = append(stack, node.Child0)
			}
			if node.Child1 != EMPTY {
				stack = append(stack, node.Child1)
			}
			continue
		}

		for packIdx := node.StartIdx; packIdx < node.StartIdx+node.PackCount; packIdx++ {
			pack := a.Packets[packIdx]
			mask, u, v, t := pack.Intersect(ray, backfaceCulling, eps)

			anyActive := false
			for lane := 0; lane < PacketWidth; lane++ {
				if a.triangleLimit >= 0 && pack.TriangleIndex[lane] >= a.triangleLimit {
					mask[lane] = false
				}
				if mask[lane] {
					anyActive = true
				}
			}
			if !anyActive {
				continue
			}

			for lane := 0; lane < PacketWidth; lane++ {
				if !mask[lane] {
					t[lane] = bestT
				}
			}

			tMin := t[0]
			for lane := 1; lane < PacketWidth; lane++ {
				if t[lane] < tMin {
					tMin = t[lane]
				}
			}
			if bestT <= tMin {
				continue
			}

			for lane := 0; lane < PacketWidth; lane++ {
				if mask[lane] && t[lane] == tMin {
					bestPack, bestLane = packIdx, lane
					bestU, bestV = u[lane], v[lane]
					bestT = tMin
					break
				}
			}
		}
	}

	if bestPack == EMPTY {
		return HitRecord{}, false
	}

	pack := a.Packets[bestPack]
	w := 1 - bestU - bestV

	triIdx := pack.TriangleIndex[bestLane]
	tri := a.Triangles[triIdx]
	mesh := a.Meshes[tri.MeshIndex]

	shadingNormal := mesh.ShadingNormal(tri, bestU, bestV, w)

	return HitRecord{
		Ray:           ray,
		Position:      ray.At(bestT),
		ShadingNormal: shadingNormal,
		FaceNormal:    tri.Normal,
		UV:            tri.UV,
		T:             bestT,
		U:             bestU,
		V:             bestV,
		W:             w,
		MeshIndex:     tri.MeshIndex,
		TriangleIndex: triIdx,
	}, true
}
