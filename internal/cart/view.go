package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// LineView is a cart line as served to the front-end: raw amounts for
// arithmetic and pre-formatted strings for display.
type LineView struct {
	ID            string      `json:"id"`
	Item          string      `json:"item"`
	Option        string      `json:"option,omitempty"`
	DisplayName   string      `json:"display_name"`
	Quantity      int         `json:"quantity"`
	UnitPrice     json.Number `json:"unit_price"`
	UnitPriceText string      `json:"unit_price_text"`
	Total         json.Number `json:"total"`
	TotalText     string      `json:"total_text"`
}

type View struct {
	Ordering       bool          `json:"ordering"`
	Language       i18n.Language `json:"language"`
	Lines          []LineView    `json:"lines"`
	Notes          string        `json:"notes"`
	TotalItems     int           `json:"total_items"`
	TotalPrice     json.Number   `json:"total_price"`
	TotalPriceText string        `json:"total_price_text"`
}

// NewView snapshots the ledger. Call it while holding the session.
func NewView(l *Ledger, f *pricing.Formatter) View {
	lang := l.Language()
	lines := l.Lines()

	v := View{
		Ordering:       l.OrderingEnabled(),
		Language:       lang,
		Lines:          make([]LineView, 0, len(lines)),
		Notes:          l.Notes(),
		TotalItems:     TotalItems(lines),
		TotalPrice:     number(TotalPrice(lines)),
		TotalPriceText: f.FormatAmount(TotalPrice(lines), lang),
	}

	for _, line := range lines {
		v.Lines = append(v.Lines, LineView{
			ID:            line.ID,
			Item:          line.ItemName,
			Option:        line.OptionName,
			DisplayName:   line.DisplayName,
			Quantity:      line.Quantity,
			UnitPrice:     number(line.UnitPrice),
			UnitPriceText: f.FormatAmount(line.UnitPrice, lang),
			Total:         number(line.Total()),
			TotalText:     f.FormatAmount(line.Total(), lang),
		})
	}
	return v
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
