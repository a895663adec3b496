package accel

import (
	"testing"

	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
)

func TestBuildPacketDuplicatesSpareLanes(t *testing.T) {
	tri := models.NewTriangle(
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
		[3]int{0, 1, 2}, 0, [3]math3d.Vec2{},
	)
	p := BuildPacket([]models.Triangle{tri}, []int{0})

	for lane := 0; lane < PacketWidth; lane++ {
		if p.TriangleIndex[lane] != 0 {
			t.Errorf("lane %d TriangleIndex = %d, want 0", lane, p.TriangleIndex[lane])
		}
	}
}

func TestPacketIntersectMatchesScalar(t *testing.T) {
	tris := make([]models.Triangle, PacketWidth)
	indices := make([]int, PacketWidth)
	for i := range tris {
		off := float64(i)
		tris[i] = models.NewTriangle(
			math3d.V3(off, 0, 0), math3d.V3(off+1, 0, 0), math3d.V3(off, 1, 0),
			[3]int{0, 1, 2}, 0, [3]math3d.Vec2{},
		)
		indices[i] = i
	}
	p := BuildPacket(tris, indices)

	r := math3d.NewRay(math3d.V3(2.2, 0.2, -1), math3d.V3(0, 0, 1))
	mask, u, v, tHit := p.Intersect(r, false, models.Epsilon)

	for lane := 0; lane < PacketWidth; lane++ {
		hit, ok := tris[lane].Intersect(r, false, models.Epsilon)
		if ok != mask[lane] {
			t.Fatalf("lane %d: packet mask=%v, scalar hit=%v", lane, mask[lane], ok)
		}
		if ok {
			if u[lane] != hit.U || v[lane] != hit.V || tHit[lane] != hit.T {
				t.Errorf("lane %d: packet (u,v,t)=(%f,%f,%f), scalar (%f,%f,%f)",
					lane, u[lane], v[lane], tHit[lane], hit.U, hit.V, hit.T)
			}
		}
	}
}

func TestPacketIntersectBackfaceCulling(t *testing.T) {
	tri := models.NewTriangle(
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
		[3]int{0, 1, 2}, 0, [3]math3d.Vec2{},
	)
	p := BuildPacket([]models.Triangle{tri}, []int{0})

	// The face normal cross(e1, e2) is +Z, so a ray travelling along -Z
	// meets the front face and one travelling along +Z meets the back.
	front := math3d.NewRay(math3d.V3(0.2, 0.2, 1), math3d.V3(0, 0, -1))
	back := math3d.NewRay(math3d.V3(0.2, 0.2, -1), math3d.V3(0, 0, 1))

	if mask, _, _, _ := p.Intersect(front, true, models.Epsilon); !mask[0] {
		t.Error("expected a front-facing hit with backface culling enabled")
	}
	if mask, _, _, _ := p.Intersect(back, true, models.Epsilon); mask[0] {
		t.Error("expected no hit for a back-facing ray with backface culling enabled")
	}
	if mask, _, _, _ := p.Intersect(back, false, models.Epsilon); !mask[0] {
		t.Error("expected a back-facing hit with backface culling disabled")
	}
}
