package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
)

// DefaultLocale groups digits the way the menu has always shown prices.
const DefaultLocale = "en-KE"

// Currency describes how amounts are labelled in each language. Locale
// picks digits and grouping for every language alike.
type Currency struct {
	Code    string                   `json:"code"`
	Symbols map[i18n.Language]string `json:"symbols"`
	Locale  string                   `json:"locale"`
}

// KenyanShilling is the currency of the Nairobi branches.
var KenyanShilling = Currency{
	Code: "KES",
	Symbols: map[i18n.Language]string{
		i18n.English: "Ksh",
		i18n.Arabic:  "Ksh",
	},
	Locale: DefaultLocale,
}

// Symbol falls back to the default language's symbol and then to the code.
func (c Currency) Symbol(lang i18n.Language) string {
	if s := c.Symbols[lang]; s != "" {
		return s
	}
	if s := c.Symbols[i18n.Default]; s != "" {
		return s
	}
	return c.Code
}

// Formatter renders amounts with a currency symbol and locale digit grouping.
type Formatter struct {
	currency Currency
	symbols  numberSymbols
}

func NewFormatter(currency Currency) *Formatter {
	tag, err := language.Parse(currency.Locale)
	if err != nil || currency.Locale == "" {
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{currency: currency, symbols: symbolsFor(tag)}
}

func (f *Formatter) Currency() Currency {
	return f.currency
}

// FormatAmount renders "Ksh 1,800". Negative amounts render as 0.
func (f *Formatter) FormatAmount(amount decimal.Decimal, lang i18n.Language) string {
	return f.currency.Symbol(lang) + " " + f.number(catalog.ParseAmount(amount))
}

// FormatPrice renders a single price, or "Ksh min - max" for a range
// whose extremes differ.
func (f *Formatter) FormatPrice(p catalog.Price, lang i18n.Language) string {
	if p.IsRange() {
		lo, hi := p.Min(), p.Max()
		if !lo.Equal(hi) {
			return f.currency.Symbol(lang) + " " + f.number(lo) + " - " + f.number(hi)
		}
		return f.FormatAmount(lo, lang)
	}
	return f.FormatAmount(p.First(), lang)
}

// FormatValue accepts loosely typed input (nil, "", numbers, numeric
// strings, two-element ranges) and never renders an empty string.
func (f *Formatter) FormatValue(v any, lang i18n.Language) string {
	switch x := v.(type) {
	case catalog.Price:
		return f.FormatPrice(x, lang)
	case *catalog.Price:
		if x == nil {
			return f.FormatAmount(decimal.Zero, lang)
		}
		return f.FormatPrice(*x, lang)
	case []any:
		amounts := make([]decimal.Decimal, len(x))
		for i, el := range x {
			amounts[i] = catalog.ParseAmount(el)
		}
		return f.FormatPrice(catalog.Range(amounts...), lang)
	case []float64:
		amounts := make([]decimal.Decimal, len(x))
		for i, el := range x {
			amounts[i] = catalog.ParseAmount(el)
		}
		return f.FormatPrice(catalog.Range(amounts...), lang)
	case json.Number, string, float64, int, int64, decimal.Decimal, nil:
		return f.FormatAmount(catalog.ParseAmount(x), lang)
	default:
		return f.FormatAmount(decimal.Zero, lang)
	}
}

// number keeps up to three fraction digits and groups the exact decimal
// text, so large or long amounts never pass through a float.
func (f *Formatter) number(d decimal.Decimal) string {
	text := d.Round(3).String()

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}

	whole, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.symbols.group)
		}
		b.WriteString(f.symbols.digit(r))
	}
	if frac != "" {
		b.WriteString(f.symbols.decimal)
		for _, r := range frac {
			b.WriteString(f.symbols.digit(r))
		}
	}
	return b.String()
}

// numberSymbols are the digits and separators a locale prints.
type numberSymbols struct {
	digits  [10]string
	group   string
	decimal string
}

func (s numberSymbols) digit(r rune) string {
	if r < '0' || r > '9' {
		return string(r)
	}
	return s.digits[r-'0']
}

// symbolsFor reads the locale's symbols back from its printer.
func symbolsFor(tag language.Tag) numberSymbols {
	p := message.NewPrinter(tag)

	s := numberSymbols{group: ",", decimal: "."}
	for i := range s.digits {
		s.digits[i] = p.Sprint(number.Decimal(i))
	}

	thousand := p.Sprint(number.Decimal(1000))
	if rest, ok := strings.CutPrefix(thousand, s.digits[1]); ok {
		if g, ok := strings.CutSuffix(rest, strings.Repeat(s.digits[0], 3)); ok {
			s.group = g
		}
	}

	half := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1)))
	if rest, ok := strings.CutPrefix(half, s.digits[1]); ok {
		if d, ok := strings.CutSuffix(rest, s.digits[5]); ok && d != "" {
			s.decimal = d
		}
	}
	return s
}
