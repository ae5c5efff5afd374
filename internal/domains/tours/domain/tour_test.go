package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var catalog = []Tour{
	{ID: "1", Title: "Everest Base Camp", Location: "Solukhumbu", Category: "Trekking", Price: 1200, Rating: 4.8},
	{ID: "2", Title: "Chitwan Safari", Location: "Chitwan", Category: "Wildlife", Price: 300, Rating: 4.2},
	{ID: "3", Title: "Annapurna Circuit", Location: "Manang", Category: "trekking", Price: 900, Rating: 4.6},
	{ID: "4", Title: "Pokhara Paragliding", Location: "Pokhara", Category: "Adventure", Price: 120, Rating: 3.9},
}

func ids(tours []Tour) []string {
	out := make([]string, 0, len(tours))
	for _, t := range tours {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "no criteria", want: []string{"1", "2", "3", "4"}},
		{name: "category ignores case", criteria: Criteria{Category: "TREKKING"}, want: []string{"1", "3"}},
		{name: "max price", criteria: Criteria{MaxPrice: 300}, want: []string{"2", "4"}},
		{name: "min rating", criteria: Criteria{MinRating: 4.5}, want: []string{"1", "3"}},
		{name: "search title", criteria: Criteria{Search: "safari"}, want: []string{"2"}},
		{name: "search location", criteria: Criteria{Search: " pokhara "}, want: []string{"4"}},
		{name: "combined", criteria: Criteria{Category: "trekking", MaxPrice: 1000}, want: []string{"3"}},
		{name: "nothing matches", criteria: Criteria{Search: "kathmandu"}, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ids(Filter(catalog, tc.criteria)))
		})
	}
}

func TestCategories(t *testing.T) {
	require.Equal(t, []string{"Adventure", "Trekking", "Wildlife", "trekking"}, Categories(catalog))
}
