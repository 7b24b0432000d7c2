package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/el-modasser/elkababgy/internal/i18n"
)

// Price is either a single amount or an ordered range of amounts
// ("from" price first). The zero value is a price of 0.
type Price struct {
	amounts []decimal.Decimal
}

func Single(amount decimal.Decimal) Price {
	return Price{amounts: []decimal.Decimal{ParseAmount(amount)}}
}

func Range(amounts ...decimal.Decimal) Price {
	p := Price{amounts: make([]decimal.Decimal, 0, len(amounts))}
	for _, a := range amounts {
		p.amounts = append(p.amounts, ParseAmount(a))
	}
	return p
}

// IsRange reports whether the price was given as a sequence.
func (p Price) IsRange() bool {
	return len(p.amounts) > 1
}

// IsZero is true for missing, empty and all-zero prices.
func (p Price) IsZero() bool {
	for _, a := range p.amounts {
		if !a.IsZero() {
			return false
		}
	}
	return true
}

// Amounts returns a copy of the underlying amounts.
func (p Price) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.amounts))
	copy(out, p.amounts)
	return out
}

// First is the "from" price of a range, or the single amount.
func (p Price) First() decimal.Decimal {
	if len(p.amounts) == 0 {
		return decimal.Zero
	}
	return p.amounts[0]
}

func (p Price) Min() decimal.Decimal {
	if len(p.amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Min(p.amounts[0], p.amounts[1:]...)
}

func (p Price) Max() decimal.Decimal {
	if len(p.amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Max(p.amounts[0], p.amounts[1:]...)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		p.amounts = nil
		return nil
	}

	switch v := raw.(type) {
	case []any:
		p.amounts = make([]decimal.Decimal, 0, len(v))
		for _, el := range v {
			p.amounts = append(p.amounts, ParseAmount(el))
		}
	case nil:
		p.amounts = nil
	default:
		p.amounts = []decimal.Decimal{ParseAmount(v)}
	}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.IsRange() {
		return json.Marshal(json.Number(p.First().String()))
	}

	out := make([]json.Number, len(p.amounts))
	for i, a := range p.amounts {
		out[i] = json.Number(a.String())
	}
	return json.Marshal(out)
}

// ItemOption is a named variant of a menu item. Its price is the absolute
// price of the variant, not an increment over the base price.
type ItemOption struct {
	Name          string          `json:"name"`
	NameLocalized i18n.Localized  `json:"name_localized,omitempty"`
	Price         decimal.Decimal `json:"-"`
}

func (o *ItemOption) UnmarshalJSON(data []byte) error {
	type alias ItemOption
	aux := struct {
		*alias
		Price  Price  `json:"price"`
		NameAr string `json:"name_ar"`
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	o.Price = aux.Price.First()
	if aux.NameAr != "" && o.NameLocalized.Get(i18n.Arabic, "") == "" {
		if o.NameLocalized == nil {
			o.NameLocalized = i18n.Localized{}
		}
		o.NameLocalized[i18n.Arabic] = aux.NameAr
	}
	return nil
}

func (o ItemOption) MarshalJSON() ([]byte, error) {
	type alias ItemOption
	return json.Marshal(struct {
		alias
		Price json.Number `json:"price"`
	}{alias: alias(o), Price: json.Number(o.Price.String())})
}

// DisplayName returns the option name in lang.
func (o ItemOption) DisplayName(lang i18n.Language) string {
	return o.NameLocalized.Get(lang, o.Name)
}

// MenuItem is one entry of the static catalog.
type MenuItem struct {
	Name                 string         `json:"name"`
	NameLocalized        i18n.Localized `json:"name_localized,omitempty"`
	Description          string         `json:"description,omitempty"`
	DescriptionLocalized i18n.Localized `json:"description_localized,omitempty"`
	Price                Price          `json:"price"`
	Image                string         `json:"image,omitempty"`
	Options              []ItemOption   `json:"options,omitempty"`
}

func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type alias MenuItem
	aux := struct {
		*alias
		NameAr        string `json:"name_ar"`
		DescriptionAr string `json:"description_ar"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.NameAr != "" && m.NameLocalized.Get(i18n.Arabic, "") == "" {
		if m.NameLocalized == nil {
			m.NameLocalized = i18n.Localized{}
		}
		m.NameLocalized[i18n.Arabic] = aux.NameAr
	}
	if aux.DescriptionAr != "" && m.DescriptionLocalized.Get(i18n.Arabic, "") == "" {
		if m.DescriptionLocalized == nil {
			m.DescriptionLocalized = i18n.Localized{}
		}
		m.DescriptionLocalized[i18n.Arabic] = aux.DescriptionAr
	}
	return nil
}

func (m MenuItem) DisplayName(lang i18n.Language) string {
	return m.NameLocalized.Get(lang, m.Name)
}

func (m MenuItem) DisplayDescription(lang i18n.Language) string {
	return m.DescriptionLocalized.Get(lang, m.Description)
}

// HasOptions is false for both a missing and an empty options list.
func (m MenuItem) HasOptions() bool {
	return len(m.Options) > 0
}

// Option looks up an option by name. Returns nil when the item has no such option.
func (m *MenuItem) Option(name string) *ItemOption {
	if m == nil {
		return nil
	}
	for i := range m.Options {
		if m.Options[i].Name == name {
			return &m.Options[i]
		}
	}
	return nil
}

// Category groups menu items under one identifier of the catalog document.
type Category struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	NameLocalized i18n.Localized `json:"name_localized,omitempty"`
	Items         []MenuItem     `json:"items"`
}

func (c Category) DisplayName(lang i18n.Language) string {
	return c.NameLocalized.Get(lang, c.Name)
}
