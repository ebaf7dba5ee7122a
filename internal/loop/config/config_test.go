package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsUseArcadeProfile(t *testing.T) {
	cfg := Default()
	if cfg.Profile != "arcade" {
		t.Fatalf("profile = %q, want arcade", cfg.Profile)
	}
	if cfg.Rules.StartingDuration != 5000000 {
		t.Errorf("starting duration = %d, want 5000000", cfg.Rules.StartingDuration)
	}
	if cfg.Rules.Difficulty != DifficultySubLevel {
		t.Errorf("difficulty = %q, want %q", cfg.Rules.Difficulty, DifficultySubLevel)
	}
	if cfg.Physics.StepDelta != 0.03 {
		t.Errorf("step delta = %f, want 0.03", cfg.Physics.StepDelta)
	}
	if cfg.Physics.Bounds.MinX != -50 || cfg.Physics.Bounds.MaxX != 700 {
		t.Errorf("bounds x = [%f, %f], want [-50, 700]", cfg.Physics.Bounds.MinX, cfg.Physics.Bounds.MaxX)
	}
}

func TestClassicProfile(t *testing.T) {
	cfg := Default()
	if err := cfg.UseProfile("classic"); err != nil {
		t.Fatal(err)
	}
	if cfg.Rules.StartingDuration != 1000000 {
		t.Errorf("starting duration = %d, want 1000000", cfg.Rules.StartingDuration)
	}
	if cfg.Rules.PunishmentPerLevel != -0.0005 {
		t.Errorf("punishment per level = %f, want -0.0005", cfg.Rules.PunishmentPerLevel)
	}
	if err := cfg.UseProfile("nope"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	data := "profile: classic\nmeter:\n  funny_bonus: 0.2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "classic" || cfg.Rules.StartingDuration != 1000000 {
		t.Errorf("profile not applied: %q %d", cfg.Profile, cfg.Rules.StartingDuration)
	}
	if cfg.Meter.FunnyBonus != 0.2 {
		t.Errorf("funny bonus = %f, want 0.2", cfg.Meter.FunnyBonus)
	}
	// Untouched fields keep their defaults.
	if cfg.Meter.Growth != 0.001 {
		t.Errorf("growth = %f, want default 0.001", cfg.Meter.Growth)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero step", "physics:\n  step_delta: 0\n", "step_delta"},
		{"inverted bounds", "physics:\n  bounds:\n    min_x: 800\n", "bounds"},
		{"bad difficulty", "profiles:\n  arcade:\n    difficulty: hard\n    sub_level_duration: 1\n", "difficulty"},
		{"unknown profile", "profile: turbo\n", "unknown profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Rays.PlayCooldownMin != cfg.Rays.PlayCooldownMin {
		t.Errorf("play cooldown min = %d, want %d", loaded.Rays.PlayCooldownMin, cfg.Rays.PlayCooldownMin)
	}
}

func TestFrameTime(t *testing.T) {
	if got := (ClientConfig{TargetFPS: 30}).FrameTime(); got.Milliseconds() != 33 {
		t.Errorf("frame time = %v, want ~33ms", got)
	}
	if got := (ClientConfig{}).FrameTime(); got.Milliseconds() != 33 {
		t.Errorf("zero fps frame time = %v, want fallback ~33ms", got)
	}
}
