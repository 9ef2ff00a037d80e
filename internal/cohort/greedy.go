package cohort

import (
	"fmt"
	"sort"

	"cohortsort/internal/cerr"
	"cohortsort/internal/group"
	"cohortsort/internal/person"
)

// AllocateGreedy produces a feasible partition biased toward high pairwise
// compatibility:
//
//  1. Sort all pairs descending by PCS, ties broken by stable iteration
//     order (the pair table's canonical build order).
//  2. Create ceil(N/nMin) empty groups.
//  3. Walk the sorted pairs; place each pair whose endpoints are both
//     still unassigned into the first group with room for two more.
//  4. Place any still-unassigned person into the smallest group with
//     room, ties broken by creation order.
//  5. Recompute every group's GCS/PCS-variance and the cohort's
//     GCS_variance.
//
// Returns cerr.ErrUnplaceable, distinctly from any other error, if a
// person could not be placed anywhere.
func (c *Cohort) AllocateGreedy() error {
	pairs := c.table.All()
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].PCS() > pairs[j].PCS()
	})

	n := len(c.people)
	nGroups := 0
	for nGroups*c.nMin < n {
		nGroups++
	}

	groups := make([]*group.Group, nGroups)
	for i := range groups {
		g, err := group.New(i, c.nMin, c.nMax, c.table, c.log)
		if err != nil {
			return fmt.Errorf("cohort: allocate greedy: %w", err)
		}
		groups[i] = g
	}

	// Back-references left by an earlier allocation (of this or another
	// cohort over the same people) would make AddPair skip every person.
	unassigned := make(map[*person.Person]bool, n)
	for _, p := range c.people {
		p.ClearGroup()
		unassigned[p] = true
	}

	for _, pair := range pairs {
		if !unassigned[pair.P1] || !unassigned[pair.P2] {
			continue
		}
		for _, g := range groups {
			if g.Size()+2 <= c.nMax {
				if err := g.AddPair(pair); err != nil {
					return fmt.Errorf("cohort: allocate greedy: %w", err)
				}
				delete(unassigned, pair.P1)
				delete(unassigned, pair.P2)
				break
			}
		}
	}

	if err := assignRemaining(groups, c.nMax, c.people, unassigned); err != nil {
		return err
	}

	c.groups = groups
	c.refreshMetrics()

	c.log.Info().
		Int("groups", len(c.groups)).
		Float64("gcs_mean", c.gcsMean).
		Float64("gcs_variance", c.gcsVariance).
		Msg("greedy allocation complete")

	return nil
}

// assignRemaining places every still-unassigned person (in people's order)
// into the currently smallest group with room, ties broken by creation
// order. Returns cerr.ErrUnplaceable, distinct from any other error, the
// moment a person cannot be placed anywhere — the condition spec's
// Feasibility note names as N > nGroups*nMax.
//
// Split out of AllocateGreedy so the branch is directly unit-testable:
// AllocateGreedy always derives nGroups as ceil(N/nMin), and New enforces
// nMin<=nMax, so nGroups*nMax >= nGroups*nMin >= N holds for every cohort
// built through the public API and this branch never fires there. Calling
// assignRemaining directly with a deliberately undersized groups slice
// reproduces the N > nGroups*nMax condition without bypassing any
// constructor invariant.
func assignRemaining(groups []*group.Group, nMax int, people []*person.Person, unassigned map[*person.Person]bool) error {
	for _, p := range people {
		if !unassigned[p] {
			continue
		}
		smallest := smallestGroup(groups)
		if smallest == nil || smallest.Size() >= nMax {
			return fmt.Errorf("cohort: allocate greedy: person %s: %w", p.Name, cerr.ErrUnplaceable)
		}
		if err := smallest.AddMember(p); err != nil {
			return fmt.Errorf("cohort: allocate greedy: %w", err)
		}
		delete(unassigned, p)
	}
	return nil
}

// smallestGroup returns the group with the fewest members, ties broken by
// creation order (i.e. slice order).
func smallestGroup(groups []*group.Group) *group.Group {
	if len(groups) == 0 {
		return nil
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Size() < best.Size() {
			best = g
		}
	}
	return best
}
