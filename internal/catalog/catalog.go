package catalog

import (
	"fmt"

	"cohortsort/internal/cerr"
)

// AttributeCatalog partitions a set of declared attributes into active and
// inactive. Only active attributes participate in scoring. The catalog is
// immutable once constructed and is meant to be shared read-only by a
// Cohort and its components.
type AttributeCatalog struct {
	options []*Attribute
	active  []*Attribute
}

// NewAttributeCatalog validates that activeSubset is a subset of options
// (by pointer identity) and computes the inactive complement. Ordering of
// options (and, derived from it, of active) is preserved: a stable
// insertion order is what every downstream consumer (pair scoring, group
// scoring, variance) relies on for deterministic iteration.
func NewAttributeCatalog(options, activeSubset []*Attribute) (*AttributeCatalog, error) {
	inOptions := make(map[*Attribute]bool, len(options))
	for _, a := range options {
		inOptions[a] = true
	}
	for _, a := range activeSubset {
		if !inOptions[a] {
			return nil, fmt.Errorf("catalog: active attribute %q: %w", a.Name(), cerr.ErrActiveNotInOption)
		}
	}

	active := make([]*Attribute, 0, len(activeSubset))
	for _, a := range options {
		for _, b := range activeSubset {
			if a == b {
				active = append(active, a)
				break
			}
		}
	}

	return &AttributeCatalog{
		options: append([]*Attribute(nil), options...),
		active:  active,
	}, nil
}

// Active returns the ordered sequence of active attributes.
func (c *AttributeCatalog) Active() []*Attribute {
	return append([]*Attribute(nil), c.active...)
}

// Options returns the ordered sequence of all declared attributes.
func (c *AttributeCatalog) Options() []*Attribute {
	return append([]*Attribute(nil), c.options...)
}

// Inactive returns the options not currently active, in options order.
func (c *AttributeCatalog) Inactive() []*Attribute {
	activeSet := make(map[*Attribute]bool, len(c.active))
	for _, a := range c.active {
		activeSet[a] = true
	}
	out := make([]*Attribute, 0, len(c.options)-len(c.active))
	for _, a := range c.options {
		if !activeSet[a] {
			out = append(out, a)
		}
	}
	return out
}
