package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("failed to load embedded catalog: %v", err)
	}

	for _, name := range []string{"t1", "t2_echo", "t2_star"} {
		p, ok := c.Get(name)
		if !ok {
			t.Fatalf("expected %s in default catalog", name)
		}
		if p.Better != "higher" {
			t.Fatalf("expected %s to prefer higher values, got %q", name, p.Better)
		}
	}

	if len(c.Parameters()) < 5 {
		t.Fatalf("expected a usable default catalog, got %d parameters", len(c.Parameters()))
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	body := `parameters:
  - name: t1
    unit: us
    scale: log
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write override: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load override catalog: %v", err)
	}
	p, ok := c.Get("t1")
	if !ok {
		t.Fatalf("expected t1 in override catalog")
	}
	if p.DisplayName != "t1" {
		t.Fatalf("expected display name to default to the parameter name, got %q", p.DisplayName)
	}
	if len(c.Names()) != 1 {
		t.Fatalf("expected exactly one parameter, got %v", c.Names())
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	body := `parameters:
  - name: t1
  - name: t1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected duplicate parameter error")
	}
}
