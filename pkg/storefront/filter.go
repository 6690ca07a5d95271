package storefront

import (
	"strings"

	"github.com/matst80/slask-storefront/pkg/catalog"
)

// Apply keeps every item whose title contains searchText case-insensitively,
// preserving input order. Empty searchText matches everything. Category
// narrowing happens upstream by choosing which item set is passed in.
func Apply(items []catalog.Item, searchText string) []catalog.Item {
	if searchText == "" {
		return items
	}
	needle := strings.ToLower(searchText)
	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			result = append(result, item)
		}
	}
	return result
}
