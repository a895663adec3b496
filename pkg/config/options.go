// Package config holds the renderer's options record, with baked-in
// defaults and an optional TOML overlay for callers that want to tweak
// them without a rebuild.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Options is the single record gathering every numeric knob the
// integrator and camera consult. Zero-valued fields are never valid
// input; always start from Default().
type Options struct {
	FOVDegrees                float64
	Epsilon                   float64
	ShadowBias                float64
	ReflectionBias            float64
	RefractionBias            float64
	SamplesPerPixel           int
	MaxRayDepth               int
	DiffuseReflectionRayCount int
	FixedRNGSeed              *int64
}

// Default returns the baseline options record.
func Default() Options {
	seed := int64(42)
	return Options{
		FOVDegrees:                90,
		Epsilon:                   1e-6,
		ShadowBias:                1e-4,
		ReflectionBias:            1e-4,
		RefractionBias:            1e-4,
		SamplesPerPixel:           1,
		MaxRayDepth:               5,
		DiffuseReflectionRayCount: 0,
		FixedRNGSeed:              &seed,
	}
}

// overlay mirrors the subset of Options a TOML file may override. A
// missing key leaves the corresponding Options field untouched.
type overlay struct {
	FOVDegrees                *float64 `toml:"fov_degrees"`
	Epsilon                   *float64 `toml:"epsilon"`
	ShadowBias                *float64 `toml:"shadow_bias"`
	ReflectionBias            *float64 `toml:"reflection_bias"`
	RefractionBias            *float64 `toml:"refraction_bias"`
	SamplesPerPixel           *int     `toml:"samples_per_pixel"`
	MaxRayDepth               *int     `toml:"max_ray_depth"`
	DiffuseReflectionRayCount *int     `toml:"diffuse_reflection_ray_count"`
	FixedRNGSeed              *int64   `toml:"fixed_rng_seed"`
	NondeterministicRNG       *bool    `toml:"nondeterministic_rng"`
}

// LoadOverlay reads a TOML file at path and applies any keys it sets on
// top of opts, returning the merged result. opts is left unmodified on
// error. Setting nondeterministic_rng = true clears FixedRNGSeed so the
// renderer seeds from entropy instead.
func LoadOverlay(path string, opts Options) (Options, error) {
	var ov overlay
	if _, err := toml.DecodeFile(path, &ov); err != nil {
		return opts, fmt.Errorf("load config overlay %q: %w", path, err)
	}

	if ov.FOVDegrees != nil {
		opts.FOVDegrees = *ov.FOVDegrees
	}
	if ov.Epsilon != nil {
		opts.Epsilon = *ov.Epsilon
	}
	if ov.ShadowBias != nil {
		opts.ShadowBias = *ov.ShadowBias
	}
	if ov.ReflectionBias != nil {
		opts.ReflectionBias = *ov.ReflectionBias
	}
	if ov.RefractionBias != nil {
		opts.RefractionBias = *ov.RefractionBias
	}
	if ov.SamplesPerPixel != nil {
		opts.SamplesPerPixel = *ov.SamplesPerPixel
	}
	if ov.MaxRayDepth != nil {
		opts.MaxRayDepth = *ov.MaxRayDepth
	}
	if ov.DiffuseReflectionRayCount != nil {
		opts.DiffuseReflectionRayCount = *ov.DiffuseReflectionRayCount
	}
	if ov.FixedRNGSeed != nil {
		opts.FixedRNGSeed = ov.FixedRNGSeed
	}
	if ov.NondeterministicRNG != nil && *ov.NondeterministicRNG {
		opts.FixedRNGSeed = nil
	}

	return opts, nil
}
