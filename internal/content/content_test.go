package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Expected default profile to validate, got %v", err)
	}
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	yml := `
name: "Sam Lee"
skills:
  - name: "Rust"
    level: 70
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load content: %v", err)
	}
	if p.Name != "Sam Lee" {
		t.Errorf("Expected name 'Sam Lee', got '%s'", p.Name)
	}
	if len(p.Skills) != 1 || p.Skills[0].Name != "Rust" || p.Skills[0].Level != 70 {
		t.Errorf("Expected a single Rust skill at 70, got %+v", p.Skills)
	}
	if len(p.Experience) != len(Default().Experience) {
		t.Errorf("Expected experience to keep defaults, got %d entries", len(p.Experience))
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	yml := `
skills:
  - name: "Go"
    level: 140
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidContent) {
		t.Errorf("Expected ErrInvalidContent, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Errorf("Expected error for missing content file")
	}
}
