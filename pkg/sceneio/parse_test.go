package sceneio

import (
	"strings"
	"testing"

	"raytracer/pkg/models"
)

const minimalScene = `{
  "settings": {
    "background_color": [0.1, 0.2, 0.3],
    "image_settings": {"width": 64, "height": 48}
  },
  "camera": {
    "position": [0, 0, 0],
    "matrix": [1, 0, 0, 0, 1, 0, 0, 0, 1]
  },
  "lights": [
    {"position": [0, 5, 0], "intensity": [10, 10, 10]}
  ],
  "textures": [
    {"name": "red", "type": "albedo", "albedo": [1, 0, 0]}
  ],
  "materials": [
    {"type": "diffuse", "albedo": [1, 1, 1], "smooth_shading": true},
    {"type": "diffuse", "albedo": "red", "smooth_shading": false},
    {"type": "reflective", "albedo": [0.9, 0.9, 0.9]},
    {"type": "refractive", "ior": 1.5},
    {"type": "constant", "albedo": [0, 0, 0]}
  ],
  "objects": [
    {
      "material_index": 0,
      "vertices": [0,0,0, 1,0,0, 0,1,0],
      "uvs": [0,0,0, 1,0,0, 0,1,0],
      "triangles": [0, 1, 2]
    }
  ]
}`

func TestParseMinimalScene(t *testing.T) {
	scn, err := Parse([]byte(minimalScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if scn.Settings.Width != 64 || scn.Settings.Height != 48 {
		t.Fatalf("unexpected settings: %+v", scn.Settings)
	}
	if len(scn.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(scn.Lights))
	}
	if len(scn.Materials) != 5 {
		t.Fatalf("expected 5 materials, got %d", len(scn.Materials))
	}
	if scn.Materials[0].Kind != models.MaterialDiffuse {
		t.Fatalf("expected material 0 to be diffuse, got %v", scn.Materials[0].Kind)
	}
	if scn.Materials[1].Kind != models.MaterialTextured || scn.Materials[1].TextureName != "red" {
		t.Fatalf("expected material 1 to be textured referencing %q, got %+v", "red", scn.Materials[1])
	}
	if scn.Materials[2].Kind != models.MaterialReflective {
		t.Fatalf("expected material 2 to be reflective, got %v", scn.Materials[2].Kind)
	}
	if scn.Materials[3].Kind != models.MaterialRefractive || scn.Materials[3].IOR != 1.5 {
		t.Fatalf("expected material 3 to be refractive with IOR 1.5, got %+v", scn.Materials[3])
	}
	if scn.Materials[4].Kind != models.MaterialConstant {
		t.Fatalf("expected material 4 to be constant, got %v", scn.Materials[4].Kind)
	}

	if len(scn.Meshes) != 1 || scn.Meshes[0].TriangleCount() != 1 {
		t.Fatalf("expected one mesh with one triangle, got %+v", scn.Meshes)
	}
	tex, ok := scn.Texture("red")
	if !ok || tex.Kind != models.TextureAlbedo {
		t.Fatalf("expected a named albedo texture %q, got ok=%v tex=%+v", "red", ok, tex)
	}
}

// TestParseUVTriplesDiscardThirdComponent locks in the parser's
// deliberate laxness: uvs are grouped into triples of 3 floats and
// only the first two of each triple become a UV pair, so a uvs array
// 1.5x the vertex count's worth of floats is still accepted.
func TestParseUVTriplesDiscardThirdComponent(t *testing.T) {
	const doc = `{
  "settings": {"background_color": [0,0,0], "image_settings": {"width": 4, "height": 4}},
  "camera": {"position": [0,0,0], "matrix": [1,0,0,0,1,0,0,0,1]},
  "lights": [],
  "textures": [],
  "materials": [{"type": "constant", "albedo": [1,1,1]}],
  "objects": [{
    "material_index": 0,
    "vertices": [0,0,0, 1,0,0, 0,1,0],
    "uvs": [0.25, 0.75, 999, 0.5, 0.5, -123, 0,0,0],
    "triangles": [0,1,2]
  }]
}`
	scn, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	uvs := scn.Meshes[0].UVs
	if len(uvs) != 3 {
		t.Fatalf("expected 3 uv pairs from 9 floats, got %d", len(uvs))
	}
	if uvs[0].X != 0.25 || uvs[0].Y != 0.75 {
		t.Fatalf("expected the first uv pair to discard its third component, got %+v", uvs[0])
	}
}

func TestParseRejectsVertexBufferNotMultipleOfThree(t *testing.T) {
	const doc = `{
  "settings": {"background_color": [0,0,0], "image_settings": {"width": 4, "height": 4}},
  "camera": {"position": [0,0,0], "matrix": [1,0,0,0,1,0,0,0,1]},
  "materials": [{"type": "constant", "albedo": [1,1,1]}],
  "objects": [{"material_index": 0, "vertices": [0,0,0,1,0], "triangles": [0,0,0]}]
}`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for a vertex buffer length not a multiple of 3")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected a *ParseError naming the field, got %v (%T)", err, err)
	}
	if !strings.Contains(pe.Field, "objects[0]") {
		t.Fatalf("expected the error to name objects[0], got %q", pe.Field)
	}
}

func TestParseRejectsUnknownMaterialType(t *testing.T) {
	const doc = `{
  "settings": {"background_color": [0,0,0], "image_settings": {"width": 4, "height": 4}},
  "camera": {"position": [0,0,0], "matrix": [1,0,0,0,1,0,0,0,1]},
  "materials": [{"type": "holographic"}],
  "objects": []
}`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected an error for an unknown material type")
	}
}

func asParseError(err error, out **ParseError) bool {
	pe, ok := err.(*ParseError)
	if ok {
		*out = pe
	}
	return ok
}
