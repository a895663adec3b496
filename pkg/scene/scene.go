// Package scene holds the fully-parsed, immutable scene description a
// render pass consumes: settings, camera, lights, named textures,
// materials, and meshes.
package scene

import (
	"raytracer/pkg/color"
	"raytracer/pkg/math3d"
	"raytracer/pkg/models"
)

// Settings carries the render-wide configuration parsed from the scene
// file: output dimensions, the background color returned when a ray
// escapes the scene or the recursion depth bottoms out, and the tile
// scheduler's bucket size.
type Settings struct {
	Width      int
	Height     int
	Background color.Color
	BucketSize int
}

// Camera is a position plus a 3x3 orientation matrix whose transpose
// maps camera-local axes to world axes. Field of view is a render-wide
// Options setting, not part of the scene file's camera object.
type Camera struct {
	Position    math3d.Vec3
	Orientation math3d.Mat3
}

// Light is a point light: a world-space position and a radiant
// intensity used directly in the diffuse falloff term.
type Light struct {
	Position  math3d.Vec3
	Intensity color.Color
}

// Scene is the complete, read-only description the accelerator and
// integrator operate over. It is constructed once by the parser.
type Scene struct {
	Settings  Settings
	Camera    Camera
	Lights    []Light
	Textures  map[string]models.Texture
	Materials []models.Material
	Meshes    []*models.Mesh
}

// Material returns the material at index i, or the zero Material
// (MaterialDiffuse with a black albedo) if i is out of range.
func (s *Scene) Material(i int) models.Material {
	if i < 0 || i >= len(s.Materials) {
		return models.Material{}
	}
	return s.Materials[i]
}

// Texture looks up a named texture, reporting ok=false if it is not
// defined in the scene.
func (s *Scene) Texture(name string) (models.Texture, bool) {
	tex, ok := s.Textures[name]
	return tex, ok
}
