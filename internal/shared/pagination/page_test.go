package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var letters = []string{"a", "b", "c", "d"}

func TestPaginate(t *testing.T) {
	p := Paginate(letters, 1, 3)
	require.Equal(t, []string{"a", "b", "c"}, p.Items)
	require.Equal(t, 4, p.Total)
	require.Equal(t, 2, p.TotalPages)
	require.True(t, p.HasNext())
	require.False(t, p.HasPrev())
	require.Equal(t, 2, p.NextPage())

	p = Paginate(letters, 2, 3)
	require.Equal(t, []string{"d"}, p.Items)
	require.False(t, p.HasNext())
	require.True(t, p.HasPrev())
	require.Zero(t, p.NextPage())
}

func TestPaginate_OutOfRange(t *testing.T) {
	p := Paginate(letters, 7, 3)
	require.Empty(t, p.Items)
	require.Equal(t, 4, p.Total)
	require.Equal(t, 7, p.Page)

	p = Paginate(letters, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultPageSize, p.Limit)
	require.Len(t, p.Items, 4)

	p = Paginate(letters, 1, 1000)
	require.Equal(t, MaxPageSize, p.Limit)

	p = Paginate(letters, math.MaxInt, MaxPageSize)
	require.Empty(t, p.Items)
	require.Equal(t, math.MaxInt, p.Page)
	require.Equal(t, 4, p.Total)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate[int](nil, 1, 5)
	require.NotNil(t, p.Items)
	require.Zero(t, p.TotalPages)
	require.False(t, p.HasNext())
}
