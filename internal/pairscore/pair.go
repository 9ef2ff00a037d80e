// Package pairscore implements the pair compatibility model:
// per-attribute raw/adjusted scoring for an unordered pair of persons,
// the weighted PCS_raw/PCS aggregates, and the cohort-wide memoized pair
// table.
package pairscore

import (
	"fmt"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cerr"
	"cohortsort/internal/person"
)

// Pair holds the per-attribute raw and flexibility-adjusted scores for an
// unordered pair {P1, P2}, plus the derived PCSRaw/PCS scalars. A Pair is
// immutable once built; rebuilding after a person's selection changes is
// the caller's responsibility — mutating a Person post-construction is
// undefined behavior.
type Pair struct {
	P1, P2 *person.Person

	rawScores map[*catalog.Attribute]float64
	adjScores map[*catalog.Attribute]float64

	pcsRaw float64
	pcs    float64
}

// Options controls scoring behavior that is otherwise left to the
// caller's judgment.
type Options struct {
	// ClampNegative reproduces the inherited behavior of clamping PCS_raw
	// and PCS to 0 whenever the weighted sum is non-positive. Default true
	// to match the reference behavior; set false to preserve negative
	// signal from matrices with negative entries.
	ClampNegative bool
}

// DefaultOptions returns the default scoring options (clamp enabled).
func DefaultOptions() Options {
	return Options{ClampNegative: true}
}

// NewPair computes a Pair's scores for p1, p2 over the catalog's active
// attribute set. p1 and p2 must be in the canonical order the caller
// establishes (PairTable uses a stable index order) — the compatibility
// matrix is consulted as C[sel(p1,a)][sel(p2,a)], and symmetry of the
// matrix is never assumed, so this order matters.
//
// Fails with cerr.ErrMissingSelection if either person lacks a selection
// for an active attribute, or cerr.ErrFlexibilityRange if a flexibility
// score is outside [1,10].
func NewPair(p1, p2 *person.Person, cat *catalog.AttributeCatalog, opt Options) (*Pair, error) {
	if p1 == p2 {
		return nil, fmt.Errorf("pairscore: cannot pair a person with themself (%s)", p1.Name)
	}

	active := cat.Active()
	raw := make(map[*catalog.Attribute]float64, len(active))
	adj := make(map[*catalog.Attribute]float64, len(active))

	var rawTotal, adjTotal float64
	for _, a := range active {
		s1, ok1 := p1.GetSelection(a)
		if !ok1 {
			return nil, fmt.Errorf("pairscore: person %s: attribute %q: %w", p1.Name, a.Name(), cerr.ErrMissingSelection)
		}
		s2, ok2 := p2.GetSelection(a)
		if !ok2 {
			return nil, fmt.Errorf("pairscore: person %s: attribute %q: %w", p2.Name, a.Name(), cerr.ErrMissingSelection)
		}

		rawScore, err := a.Score(s1, s2)
		if err != nil {
			return nil, fmt.Errorf("pairscore: %w", err)
		}

		f1 := p1.GetFlexibility(a)
		if f1 < 1 || f1 > 10 {
			return nil, fmt.Errorf("pairscore: person %s: attribute %q: %w: got %d", p1.Name, a.Name(), cerr.ErrFlexibilityRange, f1)
		}
		f2 := p2.GetFlexibility(a)
		if f2 < 1 || f2 > 10 {
			return nil, fmt.Errorf("pairscore: person %s: attribute %q: %w: got %d", p2.Name, a.Name(), cerr.ErrFlexibilityRange, f2)
		}

		maxFlex := f1
		if f2 > maxFlex {
			maxFlex = f2
		}
		adjScore := rawScore * (1 - float64(maxFlex)/10)

		raw[a] = rawScore
		adj[a] = adjScore

		w := a.Weight()
		rawTotal += rawScore * w
		adjTotal += adjScore * w
	}

	if opt.ClampNegative {
		if rawTotal < 0 {
			rawTotal = 0
		}
		if adjTotal < 0 {
			adjTotal = 0
		}
	}

	return &Pair{
		P1:        p1,
		P2:        p2,
		rawScores: raw,
		adjScores: adj,
		pcsRaw:    rawTotal,
		pcs:       adjTotal,
	}, nil
}

// PCS returns the flexibility-adjusted pair compatibility score.
func (p *Pair) PCS() float64 { return p.pcs }

// PCSRaw returns the pre-flexibility pair compatibility score.
func (p *Pair) PCSRaw() float64 { return p.pcsRaw }

// SelectionScores returns a defensive copy of the adjusted per-attribute
// scores.
func (p *Pair) SelectionScores() map[*catalog.Attribute]float64 {
	out := make(map[*catalog.Attribute]float64, len(p.adjScores))
	for k, v := range p.adjScores {
		out[k] = v
	}
	return out
}

// SelectionScoresRaw returns a defensive copy of the raw per-attribute
// scores.
func (p *Pair) SelectionScoresRaw() map[*catalog.Attribute]float64 {
	out := make(map[*catalog.Attribute]float64, len(p.rawScores))
	for k, v := range p.rawScores {
		out[k] = v
	}
	return out
}

// Other returns the pair's member that is not p, or nil if p is neither.
func (p *Pair) Other(p0 *person.Person) *person.Person {
	switch p0 {
	case p.P1:
		return p.P2
	case p.P2:
		return p.P1
	default:
		return nil
	}
}
