package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/el-modasser/elkababgy/internal/i18n"
)

// SortMode orders the items of one category.
type SortMode string

const (
	SortDefault SortMode = "default"
	SortLowHigh SortMode = "low-high"
	SortHighLow SortMode = "high-low"
)

// ParseSortMode maps query input onto a SortMode; unknown values mean default.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortLowHigh:
		return SortLowHigh
	case SortHighLow:
		return SortHighLow
	default:
		return SortDefault
	}
}

// Query selects and orders the items of a category.
type Query struct {
	Category string
	Search   string
	Sort     SortMode
	Language i18n.Language
}

// Items returns the items of q.Category that match q.Search, ordered by q.Sort.
// An unknown category or a search without matches yields an empty slice.
func (c *Catalog) Items(q Query) []MenuItem {
	cat, ok := c.Category(q.Category)
	if !ok {
		return []MenuItem{}
	}
	return Select(cat.Items, q.Search, q.Sort, q.Language)
}

// Select filters and sorts items without modifying the input slice.
func Select(items []MenuItem, search string, mode SortMode, lang i18n.Language) []MenuItem {
	out := make([]MenuItem, 0, len(items))

	needle := fold(strings.TrimSpace(search))
	for _, item := range items {
		if needle == "" || matches(item, needle, lang) {
			out = append(out, item)
		}
	}

	switch mode {
	case SortLowHigh:
		slices.SortStableFunc(out, func(a, b MenuItem) int {
			return a.Price.Min().Cmp(b.Price.Min())
		})
	case SortHighLow:
		slices.SortStableFunc(out, func(a, b MenuItem) int {
			return b.Price.Max().Cmp(a.Price.Max())
		})
	}

	return out
}

func matches(item MenuItem, needle string, lang i18n.Language) bool {
	fields := []string{
		item.DisplayName(lang),
		item.Name,
		item.DisplayDescription(lang),
		item.Description,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(fold(f), needle) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return cases.Fold().String(s)
}
