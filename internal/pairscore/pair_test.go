package pairscore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cerr"
	"cohortsort/internal/pairscore"
	"cohortsort/internal/person"
)

// buildCatalog returns a single-attribute, fully-active catalog whose
// compatibility matrix is asymmetric, so tests can pin down which
// selection order a Score call is reading.
func buildCatalog(t *testing.T, weight float64) *catalog.AttributeCatalog {
	t.Helper()
	matrix := [][]float64{
		{1.0, 0.4},
		{0.2, 1.0},
	}
	attr, err := catalog.NewAttribute("color", "", []string{"red", "blue"}, matrix, weight, true)
	require.NoError(t, err)

	cat, err := catalog.NewAttributeCatalog([]*catalog.Attribute{attr}, []*catalog.Attribute{attr})
	require.NoError(t, err)
	return cat
}

func makePerson(t *testing.T, cat *catalog.AttributeCatalog, name string, id int, selection string, flex int) *person.Person {
	t.Helper()
	p := person.New(name, id)
	for _, a := range cat.Active() {
		require.NoError(t, p.UpdateSelection(a, selection))
		require.NoError(t, p.UpdateFlexibility(a, flex))
	}
	return p
}

func TestNewPair_MissingSelectionFails(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := person.New("A", 1)
	p2 := person.New("B", 2)

	_, err := pairscore.NewPair(p1, p2, cat, pairscore.DefaultOptions())
	require.ErrorIs(t, err, cerr.ErrMissingSelection)
}

func TestNewPair_RejectsSelfPairing(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := makePerson(t, cat, "A", 1, "red", 10)

	_, err := pairscore.NewPair(p1, p1, cat, pairscore.DefaultOptions())
	require.Error(t, err)
}

func TestNewPair_FullFlexibilityZeroesAdjustedScore(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := makePerson(t, cat, "A", 1, "red", 10)
	p2 := makePerson(t, cat, "B", 2, "blue", 10)

	pair, err := pairscore.NewPair(p1, p2, cat, pairscore.DefaultOptions())
	require.NoError(t, err)

	// Flexibility 10 on both sides zeroes the adjustment factor entirely:
	// adj = raw * (1 - max(10,10)/10) = raw * 0.
	require.Equal(t, 0.4, pair.PCSRaw())
	require.Equal(t, 0.0, pair.PCS())
}

func TestNewPair_MinimumFlexibilityScalesScoreByNineTenths(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := makePerson(t, cat, "A", 1, "red", 1)
	p2 := makePerson(t, cat, "B", 2, "blue", 1)

	pair, err := pairscore.NewPair(p1, p2, cat, pairscore.DefaultOptions())
	require.NoError(t, err)

	// max flexibility 1 -> adjustment factor (1 - 1/10) = 0.9
	require.Equal(t, 0.4, pair.PCSRaw())
	require.InDelta(t, 0.4*0.9, pair.PCS(), 1e-9)
}

func TestNewPair_OrderMattersForAsymmetricMatrix(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := makePerson(t, cat, "A", 1, "red", 1)
	p2 := makePerson(t, cat, "B", 2, "blue", 1)

	forward, err := pairscore.NewPair(p1, p2, cat, pairscore.DefaultOptions())
	require.NoError(t, err)
	reverse, err := pairscore.NewPair(p2, p1, cat, pairscore.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 0.4, forward.PCSRaw())
	require.Equal(t, 0.2, reverse.PCSRaw())
}

func TestNewPair_ClampNegativeToZero(t *testing.T) {
	matrix := [][]float64{
		{0, -1},
		{-1, 0},
	}
	attr, err := catalog.NewAttribute("color", "", []string{"red", "blue"}, matrix, 1, true)
	require.NoError(t, err)
	cat, err := catalog.NewAttributeCatalog([]*catalog.Attribute{attr}, []*catalog.Attribute{attr})
	require.NoError(t, err)

	p1 := makePerson(t, cat, "A", 1, "red", 10)
	p2 := makePerson(t, cat, "B", 2, "blue", 10)

	clamped, err := pairscore.NewPair(p1, p2, cat, pairscore.Options{ClampNegative: true})
	require.NoError(t, err)
	require.Equal(t, 0.0, clamped.PCSRaw())

	unclamped, err := pairscore.NewPair(p1, p2, cat, pairscore.Options{ClampNegative: false})
	require.NoError(t, err)
	require.Equal(t, -1.0, unclamped.PCSRaw())
}

func TestPair_OtherAndSelectionScores(t *testing.T) {
	cat := buildCatalog(t, 1)
	p1 := makePerson(t, cat, "A", 1, "red", 10)
	p2 := makePerson(t, cat, "B", 2, "blue", 10)

	pair, err := pairscore.NewPair(p1, p2, cat, pairscore.DefaultOptions())
	require.NoError(t, err)

	require.Same(t, p2, pair.Other(p1))
	require.Same(t, p1, pair.Other(p2))
	require.Nil(t, pair.Other(person.New("C", 3)))

	scores := pair.SelectionScoresRaw()
	require.Len(t, scores, 1)
	for _, v := range scores {
		require.Equal(t, 0.4, v)
	}

	// Defensive copy: mutating the returned map must not affect the pair.
	for a := range scores {
		scores[a] = -99
	}
	again := pair.SelectionScoresRaw()
	for _, v := range again {
		require.Equal(t, 0.4, v)
	}
}
