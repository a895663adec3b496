package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	opts := Default()

	if opts.FOVDegrees != 90 {
		t.Errorf("FOVDegrees = %f, want 90", opts.FOVDegrees)
	}
	if opts.Epsilon != 1e-6 {
		t.Errorf("Epsilon = %g, want 1e-6", opts.Epsilon)
	}
	if opts.MaxRayDepth != 5 {
		t.Errorf("MaxRayDepth = %d, want 5", opts.MaxRayDepth)
	}
	if opts.SamplesPerPixel != 1 {
		t.Errorf("SamplesPerPixel = %d, want 1", opts.SamplesPerPixel)
	}
	if opts.FixedRNGSeed == nil || *opts.FixedRNGSeed != 42 {
		t.Errorf("FixedRNGSeed = %v, want 42", opts.FixedRNGSeed)
	}
}

func TestLoadOverlayAppliesOnlySetKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.toml")
	content := "max_ray_depth = 8\nsamples_per_pixel = 16\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOverlay(path, Default())
	if err != nil {
		t.Fatalf("LoadOverlay() error = %v", err)
	}

	if opts.MaxRayDepth != 8 {
		t.Errorf("MaxRayDepth = %d, want 8", opts.MaxRayDepth)
	}
	if opts.SamplesPerPixel != 16 {
		t.Errorf("SamplesPerPixel = %d, want 16", opts.SamplesPerPixel)
	}
	if opts.FOVDegrees != 90 {
		t.Errorf("FOVDegrees = %f, want the untouched default 90", opts.FOVDegrees)
	}
}

func TestLoadOverlayNondeterministicClearsSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.toml")
	if err := os.WriteFile(path, []byte("nondeterministic_rng = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOverlay(path, Default())
	if err != nil {
		t.Fatalf("LoadOverlay() error = %v", err)
	}
	if opts.FixedRNGSeed != nil {
		t.Errorf("FixedRNGSeed = %v, want nil after nondeterministic_rng=true", opts.FixedRNGSeed)
	}
}

func TestLoadOverlayMissingFile(t *testing.T) {
	if _, err := LoadOverlay(filepath.Join(t.TempDir(), "missing.toml"), Default()); err == nil {
		t.Error("expected an error for a missing overlay file")
	}
}
