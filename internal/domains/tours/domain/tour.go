package domain

import (
	"sort"
	"strings"
)

// Tour is a catalog entry as served by the API.
type Tour struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary,omitempty"`
	Location     string   `json:"location"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	DurationDays int      `json:"durationDays"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	Images       []string `json:"images,omitempty"`
}

// Criteria narrows a tour list. Zero fields do not filter.
type Criteria struct {
	Category  string
	MaxPrice  float64
	MinRating float64
	Search    string
}

// Matches reports whether t satisfies every set criterion.
func (c Criteria) Matches(t Tour) bool {
	if c.Category != "" && !strings.EqualFold(c.Category, t.Category) {
		return false
	}
	if c.MaxPrice > 0 && t.Price > c.MaxPrice {
		return false
	}
	if c.MinRating > 0 && t.Rating < c.MinRating {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Location), q) {
			return false
		}
	}
	return true
}

// Filter returns the tours matching c, in their original order.
func Filter(tours []Tour, c Criteria) []Tour {
	out := make([]Tour, 0, len(tours))
	for _, t := range tours {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Categories lists the distinct categories, sorted.
func Categories(tours []Tour) []string {
	seen := map[string]struct{}{}
	for _, t := range tours {
		if t.Category != "" {
			seen[t.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
