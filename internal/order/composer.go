package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// Request is everything a composed order message depends on.
// Time is injected so composition is a pure function.
type Request struct {
	Lines     []cart.Line
	Notes     string
	Language  i18n.Language
	Formatter *pricing.Formatter
	// Place names the restaurant (and branch) in the greeting; optional.
	Place string
	Time  time.Time
}

// Compose renders the order as a plain-text chat message. The same request
// always yields the same bytes.
func Compose(req Request) string {
	p := phrasesFor(req.Language)
	f := req.Formatter
	if f == nil {
		f = pricing.NewFormatter(pricing.KenyanShilling)
	}
	money := func(line cart.Line) (string, string) {
		return f.FormatAmount(line.UnitPrice, req.Language), f.FormatAmount(line.Total(), req.Language)
	}

	var b strings.Builder

	if req.Place != "" {
		fmt.Fprintf(&b, p.greetingFrom, req.Place)
	} else {
		b.WriteString(p.greeting)
	}
	b.WriteString("\n")
	b.WriteString(separator + "\n")
	b.WriteString(p.header + "\n\n")

	for i, line := range req.Lines {
		unit, total := money(line)
		fmt.Fprintf(&b, "%d. %s\n", i+1, line.DisplayName)
		fmt.Fprintf(&b, "   "+p.quantity+"\n", line.Quantity, unit, total)
	}

	subtotal := f.FormatAmount(cart.TotalPrice(req.Lines), req.Language)

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, p.subtotal+"\n", subtotal)

	if strings.TrimSpace(req.Notes) != "" {
		b.WriteString("\n" + p.instructions + "\n")
		b.WriteString(req.Notes + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, p.total+"\n", subtotal)
	fmt.Fprintf(&b, p.timestamp+"\n", formatTime(req.Time, req.Language))
	b.WriteString("\n" + p.closing)

	return b.String()
}

// QuickOrderMessage is the greeting sent when a visitor opens the chat
// without a cart.
func QuickOrderMessage(place string, lang i18n.Language) string {
	p := phrasesFor(lang)
	if place == "" {
		return p.quickOrder
	}
	return fmt.Sprintf(p.quickOrderAt, place)
}
