// Package catalog holds the attribute/selection/compatibility-matrix model:
// the dimensions along which two people are compared, and the catalog that
// tracks which of them currently participate in scoring.
package catalog

import (
	"fmt"

	"cohortsort/internal/cerr"
)

// Attribute is a named dimension of compatibility: a nonempty ordered list
// of selections, a square compatibility matrix over those selections, a
// weight in [0,1], a description, and the default-enabled flag the loader
// consumed to decide whether this attribute started active.
//
// Construct via NewAttribute, never by struct literal: the matrix index
// map must stay in sync with Selections.
type Attribute struct {
	name             string
	description      string
	selections       []string
	index            map[string]int
	matrix           [][]float64
	weight           float64
	enabledByDefault bool
}

// NewAttribute validates and builds an Attribute. It fails with
// cerr.ErrEmptySelections, cerr.ErrMatrixNotSquare, or
// cerr.ErrWeightOutOfRange on malformed input.
func NewAttribute(name, description string, selections []string, matrix [][]float64, weight float64, enabledByDefault bool) (*Attribute, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("attribute %q: %w", name, cerr.ErrEmptySelections)
	}
	n := len(selections)
	if len(matrix) != n {
		return nil, fmt.Errorf("attribute %q: %w: expected %d rows, got %d", name, cerr.ErrMatrixNotSquare, n, len(matrix))
	}
	for i, row := range matrix {
		if len(row) != n {
			return nil, fmt.Errorf("attribute %q: %w: row %d has %d entries, want %d", name, cerr.ErrMatrixNotSquare, i, len(row), n)
		}
	}
	if weight < 0 || weight > 1 {
		return nil, fmt.Errorf("attribute %q: %w: got %f", name, cerr.ErrWeightOutOfRange, weight)
	}

	index := make(map[string]int, n)
	for i, s := range selections {
		index[s] = i
	}

	return &Attribute{
		name:             name,
		description:      description,
		selections:       append([]string(nil), selections...),
		index:            index,
		matrix:           matrix,
		weight:           weight,
		enabledByDefault: enabledByDefault,
	}, nil
}

// Name returns the attribute's name.
func (a *Attribute) Name() string { return a.name }

// Description returns the opaque description string.
func (a *Attribute) Description() string { return a.description }

// Weight returns the attribute's weight in [0,1].
func (a *Attribute) Weight() float64 { return a.weight }

// EnabledByDefault returns the default-enabled flag. It is not consulted
// anywhere in this package; it exists for an external loader to decide
// whether this attribute should start out active.
func (a *Attribute) EnabledByDefault() bool { return a.enabledByDefault }

// Selections returns the ordered list of selections for this attribute.
func (a *Attribute) Selections() []string {
	return append([]string(nil), a.selections...)
}

// HasSelection reports whether s is one of this attribute's selections.
func (a *Attribute) HasSelection(s string) bool {
	_, ok := a.index[s]
	return ok
}

// Score returns the compatibility matrix entry C[s1][s2]. Both must be
// valid selections of this attribute, or cerr.ErrInvalidSelection is
// returned. Matrix symmetry is neither enforced nor assumed: the caller's
// ordering of s1/s2 determines which entry is read.
func (a *Attribute) Score(s1, s2 string) (float64, error) {
	i, ok := a.index[s1]
	if !ok {
		return 0, fmt.Errorf("attribute %q: %w: %q", a.name, cerr.ErrInvalidSelection, s1)
	}
	j, ok := a.index[s2]
	if !ok {
		return 0, fmt.Errorf("attribute %q: %w: %q", a.name, cerr.ErrInvalidSelection, s2)
	}
	return a.matrix[i][j], nil
}
