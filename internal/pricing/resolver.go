package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
)

// LineIDSeparator joins item and option names in a cart line id.
const LineIDSeparator = "_"

// ResolveOption returns the item's own copy of option, or nil when option is
// nil or no longer one of the item's options (stale reference).
func ResolveOption(item *catalog.MenuItem, option *catalog.ItemOption) *catalog.ItemOption {
	if item == nil || option == nil {
		return nil
	}
	return item.Option(option.Name)
}

// ResolvePrice is the unit price of item with the selected option.
// A valid option's price is absolute. Without one, a range resolves to its
// "from" price. Anything unusable resolves to 0.
func ResolvePrice(item *catalog.MenuItem, option *catalog.ItemOption) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	if opt := ResolveOption(item, option); opt != nil {
		return catalog.ParseAmount(opt.Price)
	}
	return catalog.ParseAmount(item.Price.First())
}

// ResolveLineID is the cart key of item with the selected option.
func ResolveLineID(item *catalog.MenuItem, option *catalog.ItemOption) string {
	if item == nil {
		return ""
	}
	if opt := ResolveOption(item, option); opt != nil {
		return item.Name + LineIDSeparator + opt.Name
	}
	return item.Name
}

// ResolveDisplayName is the localized name shown for a cart line,
// "Base (Option)" when an option is selected.
func ResolveDisplayName(item *catalog.MenuItem, option *catalog.ItemOption, lang i18n.Language) string {
	if item == nil {
		return ""
	}
	name := item.DisplayName(lang)
	if opt := ResolveOption(item, option); opt != nil {
		name += " (" + opt.DisplayName(lang) + ")"
	}
	return name
}
