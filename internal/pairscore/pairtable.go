package pairscore

import (
	"fmt"

	"cohortsort/internal/catalog"
	"cohortsort/internal/person"
)

// pairKey canonically orders two person indices so lookup is
// order-independent without a two-way map.
type pairKey struct{ lo, hi int }

func newPairKey(i, j int) pairKey {
	if i <= j {
		return pairKey{lo: i, hi: j}
	}
	return pairKey{lo: j, hi: i}
}

// PairTable memoizes every unordered pair of persons in a cohort, keyed by
// a canonical (stable-index) ordering.
type PairTable struct {
	cat     *catalog.AttributeCatalog
	opt     Options
	index   map[*person.Person]int
	order   []*person.Person
	pairs   map[pairKey]*Pair
	ordered []*Pair // insertion order, for deterministic tie-breaking
}

// Build eagerly populates all C(n,2) pairs for people over the catalog's
// active attribute set. people's slice order becomes the canonical index
// order used both for pairKey lookups and for resolving
// compatibility-matrix direction.
func Build(people []*person.Person, cat *catalog.AttributeCatalog, opt Options) (*PairTable, error) {
	index := make(map[*person.Person]int, len(people))
	for i, p := range people {
		index[p] = i
	}

	n := len(people)
	t := &PairTable{
		cat:     cat,
		opt:     opt,
		index:   index,
		order:   append([]*person.Person(nil), people...),
		pairs:   make(map[pairKey]*Pair, n*(n-1)/2),
		ordered: make([]*Pair, 0, n*(n-1)/2),
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair, err := NewPair(people[i], people[j], cat, opt)
			if err != nil {
				return nil, fmt.Errorf("pairtable: building pair (%s, %s): %w", people[i].Name, people[j].Name, err)
			}
			t.pairs[newPairKey(i, j)] = pair
			t.ordered = append(t.ordered, pair)
		}
	}

	return t, nil
}

// Lookup returns the Pair for p and q regardless of argument order,
// creating and storing it if it is not already present. Both persons must
// have been indexed by Build; a person outside the original eager build is
// rejected with an error.
func (t *PairTable) Lookup(p, q *person.Person) (*Pair, error) {
	i, iok := t.index[p]
	j, jok := t.index[q]
	if !iok || !jok {
		return nil, fmt.Errorf("pairtable: lookup requires both persons to be indexed (p=%v q=%v)", iok, jok)
	}

	key := newPairKey(i, j)
	if pair, ok := t.pairs[key]; ok {
		return pair, nil
	}

	// Canonical order for matrix direction: lower index first.
	first, second := p, q
	if j < i {
		first, second = q, p
	}
	pair, err := NewPair(first, second, t.cat, t.opt)
	if err != nil {
		return nil, fmt.Errorf("pairtable: lookup building pair (%s, %s): %w", first.Name, second.Name, err)
	}
	t.pairs[key] = pair
	t.ordered = append(t.ordered, pair)
	return pair, nil
}

// All returns every memoized pair in stable insertion order (canonical
// index order for the eagerly built pairs, followed by any pairs created
// on demand by Lookup), so callers needing deterministic tie-breaking
// (e.g. the greedy allocator's descending PCS sort) get a reproducible
// base ordering.
func (t *PairTable) All() []*Pair {
	return append([]*Pair(nil), t.ordered...)
}

// Len returns the number of memoized pairs.
func (t *PairTable) Len() int { return len(t.pairs) }

// Index returns the canonical stable index assigned to p at Build time.
func (t *PairTable) Index(p *person.Person) (int, bool) {
	i, ok := t.index[p]
	return i, ok
}
