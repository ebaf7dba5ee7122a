package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("MML_TEST_STR", "hello")
	if got := GetEnv("MML_TEST_STR", "x"); got != "hello" {
		t.Errorf("GetEnv = %q, want hello", got)
	}
	if got := GetEnv("MML_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv unset = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"42", 42},
		{"-3", -3},
		{"abc", 7},
		{"", 7},
	}
	for _, tt := range tests {
		t.Setenv("MML_TEST_INT", tt.value)
		if got := GetEnvInt("MML_TEST_INT", 7); got != tt.want {
			t.Errorf("GetEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"nope", true},
	}
	for _, tt := range tests {
		t.Setenv("MML_TEST_BOOL", tt.value)
		if got := GetEnvBool("MML_TEST_BOOL", true); got != tt.want {
			t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("MML_DOTENV_A=from_file\nMML_DOTENV_B=from_file\n"), 0644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	t.Setenv("MML_DOTENV_B", "from_env")
	// Registers cleanup for the variable the file sets.
	t.Setenv("MML_DOTENV_A", "")
	os.Unsetenv("MML_DOTENV_A")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("MML_DOTENV_A"); got != "from_file" {
		t.Errorf("A = %q, want from_file", got)
	}
	if got := os.Getenv("MML_DOTENV_B"); got != "from_env" {
		t.Errorf("B = %q, existing variable was overwritten", got)
	}
}

func TestLoadDotEnvMissing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
