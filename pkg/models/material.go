package models

import "raytracer/pkg/color"

// MaterialKind discriminates the closed set of material variants. The
// set is fixed by the shading integrator, so a dense switch over this
// tag is the dispatch mechanism rather than an interface.
type MaterialKind int

const (
	MaterialDiffuse MaterialKind = iota
	MaterialTextured
	MaterialReflective
	MaterialRefractive
	MaterialConstant
)

// Material is a tagged union over the five shading variants. Only the
// fields relevant to Kind are populated; the rest are zero value.
type Material struct {
	Kind MaterialKind

	// diffuse, reflective, constant
	Albedo color.Color

	// textured
	TextureName string

	// refractive
	IOR float64

	// diffuse, textured, reflective, refractive, constant
	SmoothShading bool
}

// IsTransmissive reports whether rays can pass through the material,
// the distinguishing property refractive materials have and every
// other variant lacks.
func (m Material) IsTransmissive() bool {
	return m.Kind == MaterialRefractive
}
