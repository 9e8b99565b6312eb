// Package catalog describes the physical parameters the dashboard can plot:
// display names, units, and which direction counts as an improvement.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed parameters.yaml
var defaultCatalogYAML []byte

// Parameter is one plottable physical quantity.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Unit        string `yaml:"unit" json:"unit"`
	Scale       string `yaml:"scale" json:"scale"`
	// Better is "higher" or "lower"; empty when neither direction is
	// preferable (frequencies, detunings).
	Better      string `yaml:"better,omitempty" json:"better,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Catalog is an ordered set of parameters keyed by name.
type Catalog struct {
	params []Parameter
	byName map[string]Parameter
}

type catalogFile struct {
	Parameters []Parameter `yaml:"parameters"`
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalogYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		raw = b
	}

	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Parameters) == 0 {
		return nil, fmt.Errorf("catalog has no parameters")
	}

	byName := make(map[string]Parameter, len(f.Parameters))
	params := make([]Parameter, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate catalog parameter: %s", p.Name)
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
		byName[p.Name] = p
		params = append(params, p)
	}

	return &Catalog{params: params, byName: byName}, nil
}

// Parameters returns the catalog in file order.
func (c *Catalog) Parameters() []Parameter {
	out := make([]Parameter, len(c.params))
	copy(out, c.params)
	return out
}

// Get returns the parameter by name.
func (c *Catalog) Get(name string) (Parameter, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Names returns sorted parameter names.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for name := range c.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
