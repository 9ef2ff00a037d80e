package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cohortsort/internal/catalog"
	"cohortsort/internal/cerr"
)

func newTestAttribute(t *testing.T, name string) *catalog.Attribute {
	t.Helper()
	a, err := catalog.NewAttribute(name, "", []string{"a", "b"}, squareMatrix(2, 1), 0.5, true)
	require.NoError(t, err)
	return a
}

func TestNewAttributeCatalog_RejectsActiveOutsideOptions(t *testing.T) {
	opt := newTestAttribute(t, "color")
	foreign := newTestAttribute(t, "size")

	_, err := catalog.NewAttributeCatalog([]*catalog.Attribute{opt}, []*catalog.Attribute{foreign})
	require.ErrorIs(t, err, cerr.ErrActiveNotInOption)
}

func TestNewAttributeCatalog_PreservesOptionsOrder(t *testing.T) {
	a1 := newTestAttribute(t, "color")
	a2 := newTestAttribute(t, "size")
	a3 := newTestAttribute(t, "shape")

	cat, err := catalog.NewAttributeCatalog(
		[]*catalog.Attribute{a1, a2, a3},
		[]*catalog.Attribute{a3, a1},
	)
	require.NoError(t, err)

	require.Equal(t, []*catalog.Attribute{a1, a2, a3}, cat.Options())
	require.Equal(t, []*catalog.Attribute{a1, a3}, cat.Active())
	require.Equal(t, []*catalog.Attribute{a2}, cat.Inactive())
}

func TestNewAttributeCatalog_EmptyActiveIsValid(t *testing.T) {
	a1 := newTestAttribute(t, "color")
	cat, err := catalog.NewAttributeCatalog([]*catalog.Attribute{a1}, nil)
	require.NoError(t, err)
	require.Empty(t, cat.Active())
	require.Equal(t, []*catalog.Attribute{a1}, cat.Inactive())
}

func TestAttributeCatalog_AccessorsReturnDefensiveCopies(t *testing.T) {
	a1 := newTestAttribute(t, "color")
	cat, err := catalog.NewAttributeCatalog([]*catalog.Attribute{a1}, []*catalog.Attribute{a1})
	require.NoError(t, err)

	active := cat.Active()
	active[0] = nil
	require.Equal(t, []*catalog.Attribute{a1}, cat.Active())
}
