// Package config loads the external configuration documents the core
// allocation packages never touch directly: the attribute-catalog
// document (plus its optional overlay) and a simulated-annealing
// parameter override file.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"cohortsort/internal/catalog"
)

// attributeDoc mirrors one entry of the configuration document's
// "attributes" list: name, description, selections, compatibility_matrix,
// default_weight, enabled_by_default.
type attributeDoc struct {
	Name                string                        `koanf:"name" validate:"required"`
	Description         string                        `koanf:"description"`
	Selections          []string                      `koanf:"selections" validate:"required,min=1"`
	CompatibilityMatrix map[string]map[string]float64 `koanf:"compatibility_matrix" validate:"required"`
	DefaultWeight       float64                       `koanf:"default_weight" validate:"gte=0,lte=1"`
	EnabledByDefault    bool                          `koanf:"enabled_by_default"`
}

// catalogDoc is the top-level configuration document shape.
type catalogDoc struct {
	Attributes []attributeDoc `koanf:"attributes" validate:"required,dive"`
}

// overlayEntry carries per-attribute overrides. Weight/Enabled are
// pointers so an absent key (or YAML's explicit "null"/"~") means "use
// the document default" rather than an ambiguous zero value.
type overlayEntry struct {
	Name    string   `koanf:"name" validate:"required"`
	Weight  *float64 `koanf:"weight" validate:"omitempty,gte=0,lte=1"`
	Enabled *bool    `koanf:"enabled"`
}

type overlayDoc struct {
	Customizations []overlayEntry `koanf:"customizations"`
}

var validate = validator.New()

// LoadCatalog reads the attribute-catalog document at catalogPath and, if
// overlayPath is non-empty, applies its per-attribute weight/enabled
// overrides, then builds the AttributeCatalog.
func LoadCatalog(catalogPath, overlayPath string) (*catalog.AttributeCatalog, error) {
	var doc catalogDoc
	if err := loadYAML(catalogPath, &doc); err != nil {
		return nil, fmt.Errorf("config: loading catalog %q: %w", catalogPath, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("config: catalog %q failed validation: %w", catalogPath, err)
	}

	weightOverride := make(map[string]float64)
	enabledOverride := make(map[string]bool)
	if overlayPath != "" {
		var overlay overlayDoc
		if err := loadYAML(overlayPath, &overlay); err != nil {
			return nil, fmt.Errorf("config: loading overlay %q: %w", overlayPath, err)
		}
		if err := validate.Struct(overlay); err != nil {
			return nil, fmt.Errorf("config: overlay %q failed validation: %w", overlayPath, err)
		}
		for _, c := range overlay.Customizations {
			if c.Weight != nil {
				weightOverride[c.Name] = *c.Weight
			}
			if c.Enabled != nil {
				enabledOverride[c.Name] = *c.Enabled
			}
		}
	}

	options := make([]*catalog.Attribute, 0, len(doc.Attributes))
	var active []*catalog.Attribute
	for _, ad := range doc.Attributes {
		weight := ad.DefaultWeight
		if w, ok := weightOverride[ad.Name]; ok {
			weight = w
		}
		enabled := ad.EnabledByDefault
		if e, ok := enabledOverride[ad.Name]; ok {
			enabled = e
		}

		matrix, err := buildMatrix(ad.Selections, ad.CompatibilityMatrix)
		if err != nil {
			return nil, fmt.Errorf("config: attribute %q: %w", ad.Name, err)
		}

		attr, err := catalog.NewAttribute(ad.Name, ad.Description, ad.Selections, matrix, weight, ad.EnabledByDefault)
		if err != nil {
			return nil, fmt.Errorf("config: attribute %q: %w", ad.Name, err)
		}

		options = append(options, attr)
		if enabled {
			active = append(active, attr)
		}
	}

	return catalog.NewAttributeCatalog(options, active)
}

// buildMatrix converts the document's selection-name-keyed map form into
// the ordered [][]float64 catalog.NewAttribute expects, failing if any
// selection pair is missing.
func buildMatrix(selections []string, doc map[string]map[string]float64) ([][]float64, error) {
	matrix := make([][]float64, len(selections))
	for i, s1 := range selections {
		row, ok := doc[s1]
		if !ok {
			return nil, fmt.Errorf("compatibility_matrix missing row for selection %q", s1)
		}
		matrix[i] = make([]float64, len(selections))
		for j, s2 := range selections {
			v, ok := row[s2]
			if !ok {
				return nil, fmt.Errorf("compatibility_matrix missing entry [%q][%q]", s1, s2)
			}
			matrix[i][j] = v
		}
	}
	return matrix, nil
}

func loadYAML(path string, out any) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return err
	}
	return k.Unmarshal("", out)
}
