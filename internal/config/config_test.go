package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chroma.Color != "#00FF00" {
		t.Errorf("Chroma.Color = %q, want #00FF00", cfg.Chroma.Color)
	}
	if cfg.Chroma.HueTolerance != 30 {
		t.Errorf("Chroma.HueTolerance = %v, want 30", cfg.Chroma.HueTolerance)
	}
	if cfg.Chroma.SaturationMin != 80 {
		t.Errorf("Chroma.SaturationMin = %v, want 80", cfg.Chroma.SaturationMin)
	}
	if cfg.Distance.NearThreshold != 30 {
		t.Errorf("Distance.NearThreshold = %v, want 30", cfg.Distance.NearThreshold)
	}
	if cfg.Distance.FarThreshold != 120 {
		t.Errorf("Distance.FarThreshold = %v, want 120", cfg.Distance.FarThreshold)
	}
	if cfg.Distance.DespillStrength != 0.8 {
		t.Errorf("Distance.DespillStrength = %v, want 0.8", cfg.Distance.DespillStrength)
	}
	if cfg.Triangulation.BG1Color != "#FFFFFF" || cfg.Triangulation.BG2Color != "#000000" {
		t.Errorf("Triangulation backgrounds = %q/%q, want #FFFFFF/#000000",
			cfg.Triangulation.BG1Color, cfg.Triangulation.BG2Color)
	}
	if cfg.Triangulation.AlphaThreshold != 0.01 {
		t.Errorf("Triangulation.AlphaThreshold = %v, want 0.01", cfg.Triangulation.AlphaThreshold)
	}
	if cfg.Output.BlurSigma != 0.5 {
		t.Errorf("Output.BlurSigma = %v, want 0.5", cfg.Output.BlurSigma)
	}
	if cfg.Segmentation.Command != "" {
		t.Errorf("Segmentation.Command = %q, want empty", cfg.Segmentation.Command)
	}
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Chroma.Color != "#00FF00" {
		t.Errorf("Chroma.Color = %q, want defaults", cfg.Chroma.Color)
	}
}

func TestLoadConfig_OverridesLayeredOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chroma-matte.yaml")
	yaml := `
chroma:
  color: "#0000FF"
distance:
  nearThreshold: 12
segmentation:
  command: rembg-serve
  args: ["--model", "u2net"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Chroma.Color != "#0000FF" {
		t.Errorf("Chroma.Color = %q, want #0000FF", cfg.Chroma.Color)
	}
	if cfg.Distance.NearThreshold != 12 {
		t.Errorf("Distance.NearThreshold = %v, want 12", cfg.Distance.NearThreshold)
	}
	if cfg.Segmentation.Command != "rembg-serve" {
		t.Errorf("Segmentation.Command = %q, want rembg-serve", cfg.Segmentation.Command)
	}
	if len(cfg.Segmentation.Args) != 2 || cfg.Segmentation.Args[1] != "u2net" {
		t.Errorf("Segmentation.Args = %v, want [--model u2net]", cfg.Segmentation.Args)
	}

	// Untouched fields keep their defaults.
	if cfg.Distance.FarThreshold != 120 {
		t.Errorf("Distance.FarThreshold = %v, want default 120", cfg.Distance.FarThreshold)
	}
	if cfg.Chroma.HueTolerance != 30 {
		t.Errorf("Chroma.HueTolerance = %v, want default 30", cfg.Chroma.HueTolerance)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig of missing file succeeded, want error")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chroma: ["), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig of malformed file succeeded, want error")
	}
}
