// Package group implements Group: a bounded multiset of persons with
// cached Group Compatibility Score (GCS) and intra-group PCS variance.
package group

import (
	"fmt"

	"github.com/rs/zerolog"

	"cohortsort/internal/cerr"
	"cohortsort/internal/pairscore"
	"cohortsort/internal/person"
)

// Group holds an ordered (but not semantically meaningful) list of member
// persons, size bounds inherited from the owning cohort, and cached
// GCS/PCS-variance. Pair scores are resolved through the cohort's shared
// PairTable rather than owned by the Group: the cohort exclusively owns
// its groups and PairTable.
type Group struct {
	idx        int
	members    []*person.Person
	nMin, nMax int
	table      *pairscore.PairTable
	log        zerolog.Logger

	gcs         float64
	pcsVariance float64
}

// New constructs an empty Group. idx is this group's index into the
// owning cohort's group slice — it is stamped onto each member's
// back-reference so Person→Group stays a plain integer, never a pointer
// cycle.
func New(idx, nMin, nMax int, table *pairscore.PairTable, log zerolog.Logger) (*Group, error) {
	if nMin <= 0 || nMax <= 0 || nMin > nMax {
		return nil, fmt.Errorf("group %d: %w: nMin=%d nMax=%d", idx, cerr.ErrBoundsInvalid, nMin, nMax)
	}
	return &Group{
		idx:   idx,
		nMin:  nMin,
		nMax:  nMax,
		table: table,
		log:   log,
	}, nil
}

// Index returns this group's index into the cohort's group slice.
func (g *Group) Index() int { return g.idx }

// Size returns the current member count.
func (g *Group) Size() int { return len(g.members) }

// Members returns a defensive copy of the member list.
func (g *Group) Members() []*person.Person {
	return append([]*person.Person(nil), g.members...)
}

// AddMember appends p to the group, stamps p's back-reference, and
// recomputes GCS/PCS-variance. Fails with cerr.ErrGroupFull if the group is
// at nMax, or cerr.ErrAlreadyMember if p is already present.
func (g *Group) AddMember(p *person.Person) error {
	if len(g.members) >= g.nMax {
		return fmt.Errorf("group %d: %w", g.idx, cerr.ErrGroupFull)
	}
	for _, m := range g.members {
		if m == p {
			return fmt.Errorf("group %d: person %s: %w", g.idx, p.Name, cerr.ErrAlreadyMember)
		}
	}

	g.members = append(g.members, p)
	p.SetGroup(g.idx)
	return g.recompute()
}

// AddPair adds both endpoints of pair to the group, but only each endpoint
// that is not already assigned to a group. A person already in a group is
// skipped with a non-fatal warning, logged rather than returned as an
// error.
func (g *Group) AddPair(pair *pairscore.Pair) error {
	for _, p := range []*person.Person{pair.P1, pair.P2} {
		if _, has := p.Group(); has {
			g.log.Warn().
				Str("person", p.Name).
				Int("group", g.idx).
				Msg("duplicate group assignment: person already has a group, skipping")
			continue
		}
		if err := g.AddMember(p); err != nil {
			return err
		}
	}
	return nil
}

// RemoveMember removes p from the group and recomputes GCS/PCS-variance.
// Fails with cerr.ErrNotMember if p is not present.
func (g *Group) RemoveMember(p *person.Person) error {
	for i, m := range g.members {
		if m == p {
			g.members = append(g.members[:i], g.members[i+1:]...)
			p.ClearGroup()
			return g.recompute()
		}
	}
	return fmt.Errorf("group %d: person %s: %w", g.idx, p.Name, cerr.ErrNotMember)
}

// recompute refreshes both cached metrics after any mutation.
func (g *Group) recompute() error {
	if err := g.computeGCS(); err != nil {
		return err
	}
	return g.computePCSVariance()
}

// intraPairs resolves every intra-group pair through the shared pair
// table.
func (g *Group) intraPairs() ([]*pairscore.Pair, error) {
	n := len(g.members)
	pairs := make([]*pairscore.Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair, err := g.table.Lookup(g.members[i], g.members[j])
			if err != nil {
				return nil, fmt.Errorf("group %d: %w", g.idx, err)
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

// computeGCS recomputes GCS: the mean of PCS over all intra-group pairs,
// or 0 if fewer than two members.
func (g *Group) computeGCS() error {
	if len(g.members) < 2 {
		g.gcs = 0
		return nil
	}
	pairs, err := g.intraPairs()
	if err != nil {
		return err
	}
	var sum float64
	for _, p := range pairs {
		sum += p.PCS()
	}
	g.gcs = sum / float64(len(pairs))
	return nil
}

// GCS returns the cached Group Compatibility Score.
func (g *Group) GCS() float64 { return g.gcs }

// computePCSVariance recomputes the population variance (divide by count,
// not count-1) of intra-group PCS, or 0 if fewer than two members.
func (g *Group) computePCSVariance() error {
	if len(g.members) < 2 {
		g.pcsVariance = 0
		return nil
	}
	pairs, err := g.intraPairs()
	if err != nil {
		return err
	}
	var sum float64
	for _, p := range pairs {
		sum += p.PCS()
	}
	mean := sum / float64(len(pairs))

	var sqSum float64
	for _, p := range pairs {
		d := p.PCS() - mean
		sqSum += d * d
	}
	g.pcsVariance = sqSum / float64(len(pairs))
	return nil
}

// PCSVariance returns the cached intra-group PCS population variance.
func (g *Group) PCSVariance() float64 { return g.pcsVariance }

// MostCompatiblePair returns the intra-group pair with the highest PCS,
// breaking ties by stable iteration order. Returns (nil, false) if fewer
// than two members.
func (g *Group) MostCompatiblePair() (*pairscore.Pair, bool) {
	pairs, err := g.intraPairs()
	if err != nil || len(pairs) == 0 {
		return nil, false
	}
	best := pairs[0]
	bestScore := best.PCS()
	for _, p := range pairs[1:] {
		if p.PCS() > bestScore {
			best = p
			bestScore = p.PCS()
		}
	}
	return best, true
}

// LeastCompatiblePair returns the intra-group pair with the lowest PCS,
// breaking ties by stable iteration order. Returns (nil, false) if fewer
// than two members.
func (g *Group) LeastCompatiblePair() (*pairscore.Pair, bool) {
	pairs, err := g.intraPairs()
	if err != nil || len(pairs) == 0 {
		return nil, false
	}
	worst := pairs[0]
	worstScore := worst.PCS()
	for _, p := range pairs[1:] {
		if p.PCS() < worstScore {
			worst = p
			worstScore = p.PCS()
		}
	}
	return worst, true
}
