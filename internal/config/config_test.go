package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dt != DefaultDt {
		t.Errorf("dt = %g, want %g", cfg.Dt, DefaultDt)
	}
	if cfg.Steps != DefaultSteps {
		t.Errorf("steps = %d, want %d", cfg.Steps, DefaultSteps)
	}
	if cfg.Batch != DefaultBatch {
		t.Errorf("batch = %d, want %d", cfg.Batch, DefaultBatch)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := &Config{
		Network: "integrator",
		Dt:      0.01,
		Steps:   250,
		Unroll:  true,
		Batch:   8,
		Seed:    7,
		Backend: "parallel",
		Passes:  4,
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("network: chain\nsteps: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Network != "chain" || cfg.Steps != 50 {
		t.Errorf("explicit fields not applied: %+v", cfg)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("omitted dt should keep default, got %g", cfg.Dt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("feedforward", "batched")
	if cfg == nil {
		t.Fatal("expected preset")
	}
	if cfg.Batch != 32 {
		t.Errorf("batch = %d, want 32", cfg.Batch)
	}

	if cfg := GetPreset("feedforward", "default"); cfg == nil || cfg.Batch != DefaultBatch {
		t.Errorf("preset without batch should default, got %+v", cfg)
	}

	if GetPreset("feedforward", "nope") != nil {
		t.Error("unknown preset name should return nil")
	}
	if GetPreset("nope", "default") != nil {
		t.Error("unknown network should return nil")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("integrator", "default")
	a.Steps = 1
	b := GetPreset("integrator", "default")
	if b.Steps == 1 {
		t.Error("mutating a preset copy leaked into the table")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("feedforward")
	if len(names) != 3 {
		t.Fatalf("expected 3 presets, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
		}
	}
	if ListPresets("nope") != nil {
		t.Error("unknown network should list nothing")
	}
}
