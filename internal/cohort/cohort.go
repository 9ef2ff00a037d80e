// Package cohort implements Cohort: the owner of a population's people,
// pair table, and groups, and the home of the two allocators (greedy
// bootstrap, simulated-annealing refiner).
package cohort

import (
	"fmt"

	"github.com/rs/zerolog"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cerr"
	"cohortsort/internal/group"
	"cohortsort/internal/pairscore"
	"cohortsort/internal/person"
)

// Cohort owns people, the attribute catalog reference, the pair table, and
// the groups it allocates into. nMin/nMax bound every group's size.
type Cohort struct {
	people []*person.Person
	cat    *catalog.AttributeCatalog
	table  *pairscore.PairTable
	groups []*group.Group

	nMin, nMax int
	scoreOpt   pairscore.Options
	log        zerolog.Logger

	gcsMean     float64
	gcsVariance float64
}

// Option configures optional Cohort behavior.
type Option func(*Cohort)

// WithLogger attaches a zerolog.Logger for construction/allocator events.
// The zero value (zerolog.Logger{}) is a valid, silent logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cohort) { c.log = log }
}

// WithScoreOptions overrides the default pair-scoring options, notably
// whether negative weighted-sum PCS gets clamped to 0.
func WithScoreOptions(opt pairscore.Options) Option {
	return func(c *Cohort) { c.scoreOpt = opt }
}

// New constructs a Cohort over people and cat, bounded by [nMin, nMax], and
// eagerly materializes the pair table. Pair-scoring failures (missing
// selections, bad flexibility) are fatal for cohort construction and
// surface wrapped around the pairscore error.
func New(people []*person.Person, cat *catalog.AttributeCatalog, nMin, nMax int, opts ...Option) (*Cohort, error) {
	if nMin <= 0 || nMax <= 0 || nMin > nMax {
		return nil, fmt.Errorf("cohort: %w: nMin=%d nMax=%d", cerr.ErrBoundsInvalid, nMin, nMax)
	}

	c := &Cohort{
		people:   append([]*person.Person(nil), people...),
		cat:      cat,
		nMin:     nMin,
		nMax:     nMax,
		scoreOpt: pairscore.DefaultOptions(),
	}
	for _, o := range opts {
		o(c)
	}

	table, err := pairscore.Build(c.people, cat, c.scoreOpt)
	if err != nil {
		return nil, fmt.Errorf("cohort: building pair table: %w", err)
	}
	c.table = table

	c.log.Debug().
		Int("people", len(c.people)).
		Int("pairs", table.Len()).
		Int("nMin", nMin).
		Int("nMax", nMax).
		Msg("cohort constructed")

	return c, nil
}

// People returns a defensive copy of the cohort's people.
func (c *Cohort) People() []*person.Person {
	return append([]*person.Person(nil), c.people...)
}

// Pairs returns every memoized pair in stable order.
func (c *Cohort) Pairs() []*pairscore.Pair {
	return c.table.All()
}

// Groups returns the cohort's current groups.
func (c *Cohort) Groups() []*group.Group {
	return append([]*group.Group(nil), c.groups...)
}

// NGroups returns the number of groups currently allocated.
func (c *Cohort) NGroups() int { return len(c.groups) }

// GCSMean returns the cached arithmetic mean of GCS across groups.
func (c *Cohort) GCSMean() float64 { return c.gcsMean }

// GCSVariance returns the cached population variance of GCS across
// groups; 0 when fewer than two groups.
func (c *Cohort) GCSVariance() float64 { return c.gcsVariance }

// refreshMetrics recomputes GCSMean/GCSVariance from the current groups.
// Callers invoke this after any allocator run or group mutation; it is
// never kept continuously up to date.
func (c *Cohort) refreshMetrics() {
	if len(c.groups) == 0 {
		c.gcsMean, c.gcsVariance = 0, 0
		return
	}

	var sum float64
	for _, g := range c.groups {
		sum += g.GCS()
	}
	c.gcsMean = sum / float64(len(c.groups))
	c.gcsVariance = c.populationVarianceOf(c.groups)
}
