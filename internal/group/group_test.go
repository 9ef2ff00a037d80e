package group_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cerr"
	"cohortsort/internal/group"
	"cohortsort/internal/pairscore"
	"cohortsort/internal/person"
)

func buildPairTable(t *testing.T, n int) (*pairscore.PairTable, []*person.Person) {
	t.Helper()
	matrix := [][]float64{
		{1, 1},
		{1, 1},
	}
	attr, err := catalog.NewAttribute("color", "", []string{"red", "blue"}, matrix, 1, true)
	require.NoError(t, err)
	cat, err := catalog.NewAttributeCatalog([]*catalog.Attribute{attr}, []*catalog.Attribute{attr})
	require.NoError(t, err)

	people := make([]*person.Person, n)
	for i := 0; i < n; i++ {
		p := person.New(string(rune('A'+i)), i)
		require.NoError(t, p.UpdateSelection(attr, "red"))
		people[i] = p
	}

	table, err := pairscore.Build(people, cat, pairscore.DefaultOptions())
	require.NoError(t, err)
	return table, people
}

func TestNew_RejectsInvalidBounds(t *testing.T) {
	table, _ := buildPairTable(t, 2)
	_, err := group.New(0, 3, 2, table, zerolog.Nop())
	require.ErrorIs(t, err, cerr.ErrBoundsInvalid)
}

func TestAddMember_RejectsOverCapacity(t *testing.T) {
	table, people := buildPairTable(t, 3)
	g, err := group.New(0, 1, 2, table, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, g.AddMember(people[0]))
	require.NoError(t, g.AddMember(people[1]))
	err = g.AddMember(people[2])
	require.ErrorIs(t, err, cerr.ErrGroupFull)
}

func TestAddMember_RejectsDuplicate(t *testing.T) {
	table, people := buildPairTable(t, 2)
	g, err := group.New(0, 1, 2, table, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, g.AddMember(people[0]))
	err = g.AddMember(people[0])
	require.ErrorIs(t, err, cerr.ErrAlreadyMember)
}

func TestAddMember_StampsPersonGroupIndex(t *testing.T) {
	table, people := buildPairTable(t, 1)
	g, err := group.New(5, 1, 1, table, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, g.AddMember(people[0]))
	idx, ok := people[0].Group()
	require.True(t, ok)
	require.Equal(t, 5, idx)
}

func TestRemoveMember_RejectsNonMember(t *testing.T) {
	table, people := buildPairTable(t, 1)
	g, err := group.New(0, 1, 2, table, zerolog.Nop())
	require.NoError(t, err)

	err = g.RemoveMember(people[0])
	require.ErrorIs(t, err, cerr.ErrNotMember)
}

func TestGCS_ZeroWithFewerThanTwoMembers(t *testing.T) {
	table, people := buildPairTable(t, 1)
	g, err := group.New(0, 1, 2, table, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, 0.0, g.GCS())
	require.NoError(t, g.AddMember(people[0]))
	require.Equal(t, 0.0, g.GCS())
}

func TestGCS_MeanOfIntraPairPCS(t *testing.T) {
	table, people := buildPairTable(t, 3)
	g, err := group.New(0, 1, 3, table, zerolog.Nop())
	require.NoError(t, err)

	for _, p := range people {
		require.NoError(t, g.AddMember(p))
	}

	// Every selection is "red" against an all-ones matrix with weight 1
	// and full flexibility, so every pair scores 0 after the flexibility
	// adjustment collapses the raw score.
	require.Equal(t, 0.0, g.GCS())
}

func TestRemoveThenReAddMember_RestoresMetrics(t *testing.T) {
	table, people := buildPairTable(t, 3)
	g, err := group.New(0, 1, 3, table, zerolog.Nop())
	require.NoError(t, err)
	for _, p := range people {
		require.NoError(t, g.AddMember(p))
	}

	before := g.GCS()
	beforeVar := g.PCSVariance()

	require.NoError(t, g.RemoveMember(people[0]))
	require.NoError(t, g.AddMember(people[0]))

	require.InDelta(t, before, g.GCS(), 1e-9)
	require.InDelta(t, beforeVar, g.PCSVariance(), 1e-9)
}

func TestMostAndLeastCompatiblePair_EmptyWithFewerThanTwoMembers(t *testing.T) {
	table, people := buildPairTable(t, 1)
	g, err := group.New(0, 1, 2, table, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, g.AddMember(people[0]))

	_, ok := g.MostCompatiblePair()
	require.False(t, ok)
	_, ok = g.LeastCompatiblePair()
	require.False(t, ok)
}

func TestAddPair_SkipsEndpointAlreadyAssigned(t *testing.T) {
	table, people := buildPairTable(t, 3)
	g1, err := group.New(0, 1, 3, table, zerolog.Nop())
	require.NoError(t, err)
	g2, err := group.New(1, 1, 3, table, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, g1.AddMember(people[0]))

	pair, err := table.Lookup(people[0], people[1])
	require.NoError(t, err)

	require.NoError(t, g2.AddPair(pair))
	// people[0] stays in g1; only people[1] is newly placed in g2.
	require.Equal(t, 1, g1.Size())
	require.Equal(t, 1, g2.Size())
}
