package cohort

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"cohortsort/internal/group"
)

// AllocateSA refines the cohort's existing group partition with
// simulated annealing to reduce inter-group GCS dispersion. It requires a
// partition to already exist — call AllocateGreedy (or otherwise populate
// groups) first; SA perturbs an existing assignment, it does not
// construct one from scratch.
//
// seed drives a dedicated *rand.Rand so runs are reproducible; use
// AllocateSAWithRand to supply your own source (e.g. to continue a
// stream across calls).
func (c *Cohort) AllocateSA(ctx context.Context, seed int64, cfg SAConfig) error {
	return c.AllocateSAWithRand(ctx, rand.New(rand.NewSource(seed)), cfg)
}

// AllocateSAWithRand is AllocateSA with a caller-supplied RNG.
func (c *Cohort) AllocateSAWithRand(ctx context.Context, rng *rand.Rand, cfg SAConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cohort: allocate sa: %w", err)
	}
	if rng == nil {
		return fmt.Errorf("cohort: allocate sa: rng must not be nil")
	}
	if len(c.groups) == 0 {
		return fmt.Errorf("cohort: allocate sa: no groups to refine; run AllocateGreedy first")
	}

	T := cfg.InitialTemp
	step := 0
	currentV := c.populationVarianceOf(c.groups)

	for T > cfg.FinalTemp {
		if cfg.MaxSteps > 0 && step >= cfg.MaxSteps {
			break
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cohort: allocate sa: %w", err)
		}

		newV, swapped, err := c.trySwap(rng, currentV, T)
		if err != nil {
			return fmt.Errorf("cohort: allocate sa: %w", err)
		}
		if swapped {
			currentV = newV
		}

		c.log.Debug().
			Int("step", step).
			Float64("temperature", T).
			Float64("variance", currentV).
			Bool("swapped", swapped).
			Msg("sa step")

		T *= cfg.Alpha
		step++
	}

	c.refreshMetrics()

	c.log.Info().
		Int("steps", step).
		Float64("gcs_mean", c.gcsMean).
		Float64("gcs_variance", c.gcsVariance).
		Msg("sa refinement complete")

	return nil
}

// trySwap performs one simulated-annealing step: pick two distinct
// non-empty groups, swap one random member from each, and decide whether
// to keep or revert the swap under the canonical Metropolis acceptance
// rule (see DESIGN.md for why this package uses canonical Metropolis
// rather than the inverted formula some sources describe). Returns the
// variance after the step and whether the swap was kept.
func (c *Cohort) trySwap(rng *rand.Rand, currentV, T float64) (float64, bool, error) {
	if len(c.groups) < 2 {
		return currentV, false, nil
	}

	i, j := distinctPair(rng, len(c.groups))
	g1, g2 := c.groups[i], c.groups[j]
	if g1.Size() == 0 || g2.Size() == 0 {
		return currentV, false, nil
	}

	p1 := g1.Members()[rng.Intn(g1.Size())]
	p2 := g2.Members()[rng.Intn(g2.Size())]

	if err := g1.RemoveMember(p1); err != nil {
		return currentV, false, err
	}
	if err := g2.RemoveMember(p2); err != nil {
		return currentV, false, err
	}
	if err := g1.AddMember(p2); err != nil {
		return currentV, false, err
	}
	if err := g2.AddMember(p1); err != nil {
		return currentV, false, err
	}

	newV := c.populationVarianceOf(c.groups)

	keep := true
	if newV >= currentV {
		// Canonical Metropolis: accept a worsening swap with probability
		// exp((V-V')/T), which falls toward 0 as T cools, so the refiner
		// freezes into only-improving moves near the end of the schedule.
		acceptP := math.Exp((currentV - newV) / T)
		if rng.Float64() >= acceptP {
			keep = false
		}
	}

	if !keep {
		if err := g1.RemoveMember(p2); err != nil {
			return currentV, false, err
		}
		if err := g2.RemoveMember(p1); err != nil {
			return currentV, false, err
		}
		if err := g1.AddMember(p1); err != nil {
			return currentV, false, err
		}
		if err := g2.AddMember(p2); err != nil {
			return currentV, false, err
		}
		return currentV, false, nil
	}

	return newV, true, nil
}

// populationVarianceOf computes the population variance of GCS across
// groups — the refiner's objective V — without touching cached cohort
// metrics; those are only refreshed once at the end of the refiner.
func (c *Cohort) populationVarianceOf(groups []*group.Group) float64 {
	if len(groups) < 2 {
		return 0
	}
	var sum float64
	for _, g := range groups {
		sum += g.GCS()
	}
	mean := sum / float64(len(groups))

	var sqSum float64
	for _, g := range groups {
		d := g.GCS() - mean
		sqSum += d * d
	}
	return sqSum / float64(len(groups))
}

// distinctPair returns two distinct indices in [0,n) chosen uniformly at
// random.
func distinctPair(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
