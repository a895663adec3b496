package sceneio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeTriangleGLB writes a minimal binary glTF file holding a single
// triangle with positions, UVs, and uint16 indices, returning its path.
// The buffer layout is positions (36 bytes), then UVs (24 bytes), then
// indices (6 bytes, zero-padded to 4-byte alignment).
func writeTriangleGLB(t *testing.T) string {
	t.Helper()

	var bin bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for _, p := range positions {
		for _, c := range p {
			binary.Write(&bin, binary.LittleEndian, c)
		}
	}
	uvs := [][2]float32{{0, 0}, {1, 0}, {0, 1}}
	for _, uv := range uvs {
		for _, c := range uv {
			binary.Write(&bin, binary.LittleEndian, c)
		}
	}
	for _, idx := range []uint16{0, 1, 2} {
		binary.Write(&bin, binary.LittleEndian, idx)
	}
	byteLength := bin.Len()
	for bin.Len()%4 != 0 {
		bin.WriteByte(0)
	}

	jsonChunk := []byte(fmt.Sprintf(`{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": %d}],
	  "bufferViews": [
	    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
	    {"buffer": 0, "byteOffset": 36, "byteLength": 24},
	    {"buffer": 0, "byteOffset": 60, "byteLength": 6}
	  ],
	  "accessors": [
	    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0,0,0], "max": [1,1,0]},
	    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
	    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
	  ],
	  "meshes": [{"name": "tri", "primitives": [
	    {"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "indices": 2, "mode": 4}
	  ]}]
	}`, byteLength))
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}

	var glb bytes.Buffer
	glb.WriteString("glTF")
	binary.Write(&glb, binary.LittleEndian, uint32(2))
	total := 12 + 8 + len(jsonChunk) + 8 + bin.Len()
	binary.Write(&glb, binary.LittleEndian, uint32(total))
	binary.Write(&glb, binary.LittleEndian, uint32(len(jsonChunk)))
	binary.Write(&glb, binary.LittleEndian, uint32(0x4E4F534A)) // "JSON"
	glb.Write(jsonChunk)
	binary.Write(&glb, binary.LittleEndian, uint32(bin.Len()))
	binary.Write(&glb, binary.LittleEndian, uint32(0x004E4942)) // "BIN\0"
	glb.Write(bin.Bytes())

	path := filepath.Join(t.TempDir(), "triangle.glb")
	if err := os.WriteFile(path, glb.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGLTFMeshes(t *testing.T) {
	path := writeTriangleGLB(t)

	meshes, err := LoadGLTFMeshes(path, 3, 7)
	if err != nil {
		t.Fatalf("LoadGLTFMeshes: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	m := meshes[0]
	if m.MaterialIndex != 3 {
		t.Errorf("MaterialIndex = %d, want 3", m.MaterialIndex)
	}
	if m.MeshIndex != 7 {
		t.Errorf("MeshIndex = %d, want the caller's offset 7", m.MeshIndex)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}

	tri := m.Triangles[0]
	if tri.V0 != m.Vertices[0] || tri.V1 != m.Vertices[1] || tri.V2 != m.Vertices[2] {
		t.Errorf("triangle corners do not reference the loaded vertices: %+v", tri)
	}
	if got := m.Vertices[1]; got.X != 1 || got.Y != 0 || got.Z != 0 {
		t.Errorf("vertex 1 = %+v, want (1, 0, 0)", got)
	}

	// glTF stores V with a top-left origin; the loader flips it.
	if got := m.UVs[0]; got.X != 0 || got.Y != 1 {
		t.Errorf("uv 0 = %+v, want the flipped (0, 1)", got)
	}
	if got := m.UVs[2]; got.X != 0 || got.Y != 0 {
		t.Errorf("uv 2 = %+v, want the flipped (0, 0)", got)
	}

	if math.Abs(tri.Normal.Z-1) > 1e-9 {
		t.Errorf("face normal = %+v, want +Z for CCW winding", tri.Normal)
	}
}

func TestParseObjectWithGLTFFile(t *testing.T) {
	glbPath := writeTriangleGLB(t)

	doc := fmt.Sprintf(`{
	  "settings": {"background_color": [0,0,0], "image_settings": {"width": 4, "height": 4}},
	  "camera": {"position": [0,0,0], "matrix": [1,0,0,0,1,0,0,0,1]},
	  "materials": [
	    {"type": "constant", "albedo": [1,1,1]},
	    {"type": "constant", "albedo": [1,0,0]}
	  ],
	  "objects": [
	    {"material_index": 1, "gltf_file": %q},
	    {
	      "material_index": 0,
	      "vertices": [0,0,-2, 1,0,-2, 0,1,-2],
	      "triangles": [0, 1, 2]
	    }
	  ]
	}`, glbPath)

	scn, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(scn.Meshes) != 2 {
		t.Fatalf("expected the glTF object plus the inline object, got %d meshes", len(scn.Meshes))
	}
	if scn.Meshes[0].MaterialIndex != 1 || scn.Meshes[0].TriangleCount() != 1 {
		t.Errorf("glTF mesh = %+v, want material 1 with one triangle", scn.Meshes[0])
	}
	if scn.Meshes[1].MeshIndex != 1 {
		t.Errorf("inline mesh MeshIndex = %d, want its position after the glTF meshes", scn.Meshes[1].MeshIndex)
	}
}

func TestParseMissingGLTFFileNamesObject(t *testing.T) {
	doc := `{
	  "settings": {"background_color": [0,0,0], "image_settings": {"width": 4, "height": 4}},
	  "camera": {"position": [0,0,0], "matrix": [1,0,0,0,1,0,0,0,1]},
	  "materials": [{"type": "constant", "albedo": [1,1,1]}],
	  "objects": [{"material_index": 0, "gltf_file": "nonexistent.glb"}]
	}`

	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for a missing glTF file")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected a *ParseError naming the object, got %v (%T)", err, err)
	}
	if pe.Field != "objects[0]" {
		t.Errorf("error names %q, want objects[0]", pe.Field)
	}
}
