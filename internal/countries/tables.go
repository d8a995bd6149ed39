// Package countries reconciles country names across datasets and tags each
// canonical country with its region.
//
// Both lookups are built once from a YAML table and are read-only afterwards.
package countries

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"shadowgap.org/internal/models"
)

//go:embed tables.yaml
var defaultTables []byte

// ErrAmbiguousMapping is returned when a table would let one raw name resolve
// to more than one canonical name, or one country to more than one region.
var ErrAmbiguousMapping = errors.New("ambiguous country table")

// Regions a canonical country may be tagged with.
var Regions = []string{"Africa", "Middle East", "Europe", "Asia", "Americas", "Oceania"}

type tableFile struct {
	Aliases    map[string]string   `yaml:"aliases"`
	Continents map[string][]string `yaml:"continents"`
}

// Tables holds the alias and continent lookups.
type Tables struct {
	aliases    map[string]string
	continents map[string]string
	canonical  map[string]struct{}
}

// DefaultTables parses the embedded tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTables)
}

// LoadTables reads tables from path, or the embedded defaults if path is empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country tables: %w", err)
	}

	t, err := ParseTables(b)
	if err != nil {
		return nil, fmt.Errorf("country tables %s: %w", path, err)
	}
	return t, nil
}

// ParseTables decodes and validates a YAML table document. Duplicate keys are
// rejected by the YAML decoder itself; the remaining checks catch keys that
// only collide after normalization, chained aliases, and continent entries
// that are not canonical.
func ParseTables(b []byte) (*Tables, error) {
	var doc tableFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		if strings.Contains(err.Error(), "already defined") {
			return nil, fmt.Errorf("%w: %v", ErrAmbiguousMapping, err)
		}
		return nil, fmt.Errorf("parse country tables: %w", err)
	}

	t := &Tables{
		aliases:    make(map[string]string, len(doc.Aliases)),
		continents: make(map[string]string),
		canonical:  make(map[string]struct{}),
	}

	// Sorted iteration keeps error messages stable between runs.
	raws := make([]string, 0, len(doc.Aliases))
	for raw := range doc.Aliases {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	for _, raw := range raws {
		key := clean(raw)
		target := clean(doc.Aliases[raw])
		if key == "" || target == "" {
			return nil, fmt.Errorf("%w: empty alias entry %q -> %q", ErrAmbiguousMapping, raw, doc.Aliases[raw])
		}
		if prev, ok := t.aliases[key]; ok && prev != target {
			return nil, fmt.Errorf("%w: %q maps to both %q and %q", ErrAmbiguousMapping, key, prev, target)
		}
		t.aliases[key] = target
		t.canonical[target] = struct{}{}
	}

	keys := make([]string, 0, len(t.aliases))
	for key := range t.aliases {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		target := t.aliases[key]
		if next, ok := t.aliases[target]; ok && next != target {
			return nil, fmt.Errorf("%w: %q maps to %q which itself maps to %q", ErrAmbiguousMapping, key, target, next)
		}
	}

	valid := make(map[string]bool, len(Regions))
	for _, r := range Regions {
		valid[r] = true
	}

	regions := make([]string, 0, len(doc.Continents))
	for region := range doc.Continents {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		if !valid[region] {
			return nil, fmt.Errorf("%w: unknown region %q", ErrAmbiguousMapping, region)
		}
		for _, name := range doc.Continents[region] {
			country := clean(name)
			if target, ok := t.aliases[country]; ok && target != country {
				return nil, fmt.Errorf("%w: continent entry %q is an alias of %q", ErrAmbiguousMapping, country, target)
			}
			if prev, ok := t.continents[country]; ok && prev != region {
				return nil, fmt.Errorf("%w: %q listed under both %s and %s", ErrAmbiguousMapping, country, prev, region)
			}
			t.continents[country] = region
			t.canonical[country] = struct{}{}
		}
	}

	return t, nil
}

// Known reports whether a canonical name appears anywhere in the tables.
func (t *Tables) Known(country string) bool {
	_, ok := t.canonical[country]
	return ok
}

// Continent returns the region of a canonical country, or "Other".
func (t *Tables) Continent(country string) string {
	if region, ok := t.continents[country]; ok {
		return region
	}
	return models.OtherContinent
}

// AliasCount is the number of raw spellings the tables resolve.
func (t *Tables) AliasCount() int {
	return len(t.aliases)
}

func clean(s string) string {
	return strings.Join(strings.Fields(nfc(s)), " ")
}
