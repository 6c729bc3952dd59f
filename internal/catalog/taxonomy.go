// Package catalog owns the category taxonomy and everything that turns raw
// product records into the canonical domain.Product the rest of the service
// works with.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

var ErrEmptyTaxonomy = errors.New("taxonomy has no categories")

type Category struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// Taxonomy is the single source of truth for category order, product code
// prefixes and the default product image.
type Taxonomy struct {
	Unspecified  string     `yaml:"unspecified"`
	FallbackCode string     `yaml:"fallbackCode"`
	DefaultImage string     `yaml:"defaultImage"`
	Categories   []Category `yaml:"categories"`

	rank map[string]int
}

func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded taxonomy: %v", err))
	}
	return t
}

// LoadTaxonomy reads a taxonomy file; an empty path yields the embedded one.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return ParseTaxonomy(data)
}

func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	if t.Unspecified == "" {
		t.Unspecified = "Unspecified"
	}
	if t.FallbackCode == "" {
		t.FallbackCode = "PRD"
	}
	t.rank = make(map[string]int, len(t.Categories))
	for i, c := range t.Categories {
		if _, dup := t.rank[c.Name]; dup {
			return nil, fmt.Errorf("parse taxonomy: duplicate category %q", c.Name)
		}
		t.rank[c.Name] = i
	}
	return &t, nil
}

func (t *Taxonomy) Names() []string {
	out := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		out[i] = c.Name
	}
	return out
}

func (t *Taxonomy) Contains(name string) bool {
	_, ok := t.rank[name]
	return ok
}

// CodePrefix is the product-code prefix for a category.
func (t *Taxonomy) CodePrefix(name string) string {
	if i, ok := t.rank[name]; ok && t.Categories[i].Code != "" {
		return t.Categories[i].Code
	}
	return t.FallbackCode
}

// CategoryOf returns name, or the unspecified label when name is blank.
func (t *Taxonomy) CategoryOf(name string) string {
	if strings.TrimSpace(name) == "" {
		return t.Unspecified
	}
	return name
}

// Order sorts category names by their position in the taxonomy. Unknown
// names go after every known one and keep the order they came in.
func (t *Taxonomy) Order(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := t.rank[out[i]]
		rj, jok := t.rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
