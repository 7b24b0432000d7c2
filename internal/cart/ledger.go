package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// Config is fixed for the lifetime of a ledger.
type Config struct {
	// OrderingEnabled gates every cart mutation. A browse-only session keeps
	// an empty ledger.
	OrderingEnabled bool
	Language        i18n.Language
}

// Line is one distinct purchasable entry, keyed by item and option.
type Line struct {
	ID          string          `json:"id"`
	ItemName    string          `json:"item_name"`
	OptionName  string          `json:"option_name,omitempty"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Total is UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Ledger holds the cart of one visitor session. It is not safe for
// concurrent use; the session store serializes access.
type Ledger struct {
	cfg   Config
	lang  i18n.Language
	lines []Line
	notes string
}

func New(cfg Config) *Ledger {
	if !cfg.Language.Valid() {
		cfg.Language = i18n.Default
	}
	return &Ledger{cfg: cfg, lang: cfg.Language}
}

func (l *Ledger) OrderingEnabled() bool {
	return l.cfg.OrderingEnabled
}

// Language is used for the display names of lines added from now on.
func (l *Ledger) Language() i18n.Language {
	return l.lang
}

func (l *Ledger) SetLanguage(lang i18n.Language) {
	if lang.Valid() {
		l.lang = lang
	}
}

// --------------------------------------------------
// Mutations
// --------------------------------------------------

// Add puts quantity units of item (with the selected option) in the cart.
// An existing line keeps its stored price and only grows in quantity.
// Nil items, non-positive quantities and browse-only ledgers are no-ops.
func (l *Ledger) Add(item *catalog.MenuItem, quantity int, option *catalog.ItemOption) {
	if !l.cfg.OrderingEnabled || item == nil || quantity <= 0 {
		return
	}

	id := pricing.ResolveLineID(item, option)
	if i := l.index(id); i >= 0 {
		l.lines[i].Quantity += quantity
		return
	}

	line := Line{
		ID:          id,
		ItemName:    item.Name,
		DisplayName: pricing.ResolveDisplayName(item, option, l.lang),
		UnitPrice:   pricing.ResolvePrice(item, option),
		Quantity:    quantity,
	}
	if opt := pricing.ResolveOption(item, option); opt != nil {
		line.OptionName = opt.Name
	}

	l.lines = append(l.lines, line)
}

// UpdateQuantity sets the quantity of a line exactly. Zero or less removes it.
func (l *Ledger) UpdateQuantity(id string, quantity int) {
	if !l.cfg.OrderingEnabled {
		return
	}
	if quantity <= 0 {
		l.Remove(id)
		return
	}
	if i := l.index(id); i >= 0 {
		l.lines[i].Quantity = quantity
	}
}

// Increment and Decrement adjust a line by one; decrementing a line with
// quantity 1 removes it.
func (l *Ledger) Increment(id string) {
	if line, ok := l.Line(id); ok {
		l.UpdateQuantity(id, line.Quantity+1)
	}
}

func (l *Ledger) Decrement(id string) {
	if line, ok := l.Line(id); ok {
		l.UpdateQuantity(id, line.Quantity-1)
	}
}

func (l *Ledger) Remove(id string) {
	if !l.cfg.OrderingEnabled {
		return
	}
	if i := l.index(id); i >= 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
	}
}

// Clear empties the cart and its notes.
func (l *Ledger) Clear() {
	l.lines = nil
	l.notes = ""
}

func (l *Ledger) SetNotes(notes string) {
	l.notes = notes
}

// Notes returns the free-text instructions exactly as entered.
func (l *Ledger) Notes() string {
	return l.notes
}

// HasNotes ignores surrounding whitespace.
func (l *Ledger) HasNotes() bool {
	return strings.TrimSpace(l.notes) != ""
}

// --------------------------------------------------
// Projections
// --------------------------------------------------

// Lines returns a copy of the lines in the order they were first added.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Line(id string) (Line, bool) {
	if i := l.index(id); i >= 0 {
		return l.lines[i], true
	}
	return Line{}, false
}

func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}

func (l *Ledger) TotalItems() int {
	return TotalItems(l.lines)
}

func (l *Ledger) TotalPrice() decimal.Decimal {
	return TotalPrice(l.lines)
}

func (l *Ledger) index(id string) int {
	for i := range l.lines {
		if l.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalItems sums quantities.
func TotalItems(lines []Line) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

// TotalPrice sums unit price × quantity exactly.
func TotalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total())
	}
	return total
}
