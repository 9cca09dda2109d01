package discovery

import (
	"strings"

	"cth/internal/domain"
)

// Filter selects test cases by name
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the cases whose name contains pattern, in order.
// An empty pattern keeps every case.
func (f *Filter) FilterByName(suite domain.TestSuite, pattern string) domain.TestSuite {
	if pattern == "" {
		return suite
	}

	filtered := domain.TestSuite{}
	for _, tc := range suite {
		if strings.Contains(tc.Name, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}
