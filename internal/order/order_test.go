package order

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

var orderTime = time.Date(2026, time.October, 17, 19, 30, 0, 0, time.UTC)

func scenarioLedger(t *testing.T) *cart.Ledger {
	t.Helper()

	grill := &catalog.MenuItem{
		Name:  "Mixed Grill",
		Price: catalog.Single(decimal.NewFromInt(2100)),
		Options: []catalog.ItemOption{
			{Name: "Single", Price: decimal.NewFromInt(2100)},
			{Name: "Double", Price: decimal.NewFromInt(3800)},
		},
	}
	kebab := &catalog.MenuItem{Name: "Lamb Kebab", Price: catalog.Single(decimal.NewFromInt(1800))}

	l := cart.New(cart.Config{OrderingEnabled: true, Language: i18n.English})
	l.Add(grill, 1, grill.Option("Double"))
	l.Add(kebab, 2, nil)
	require.True(t, l.TotalPrice().Equal(decimal.NewFromInt(7400)))
	return l
}

func TestCompose_English(t *testing.T) {
	l := scenarioLedger(t)

	got := Compose(Request{
		Lines:     l.Lines(),
		Notes:     "Extra garlic sauce",
		Language:  i18n.English,
		Formatter: pricing.NewFormatter(pricing.KenyanShilling),
		Place:     "El Kebabgy - Parklands",
		Time:      orderTime,
	})

	want := strings.Join([]string{
		"Hello! I'd like to place an order from El Kebabgy - Parklands:",
		separator,
		"*Order Details*",
		"",
		"1. Mixed Grill (Double)",
		"   Qty: 1 × Ksh 3,800 = Ksh 3,800",
		"2. Lamb Kebab",
		"   Qty: 2 × Ksh 1,800 = Ksh 3,600",
		separator,
		"Subtotal: Ksh 7,400",
		"",
		"*Special Instructions:*",
		"Extra garlic sauce",
		"",
		"*Total: Ksh 7,400*",
		"Order time: Oct 17, 2026 at 7:30 PM",
		"",
		"Thank you!",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestCompose_Deterministic(t *testing.T) {
	l := scenarioLedger(t)
	req := Request{
		Lines:     l.Lines(),
		Notes:     "no onions",
		Language:  i18n.Arabic,
		Formatter: pricing.NewFormatter(pricing.KenyanShilling),
		Time:      orderTime,
	}

	assert.Equal(t, Compose(req), Compose(req))
}

func TestCompose_BlankNotesOmitInstructions(t *testing.T) {
	l := scenarioLedger(t)

	got := Compose(Request{Lines: l.Lines(), Notes: "  \n\t ", Language: i18n.English, Time: orderTime})

	assert.NotContains(t, got, "Special Instructions")
	assert.Contains(t, got, "Subtotal: Ksh 7,400")
	assert.Contains(t, got, "*Total: Ksh 7,400*")
}

func TestCompose_NotesKeptVerbatim(t *testing.T) {
	notes := "  Ring twice\nGate B  "
	got := Compose(Request{Notes: notes, Language: i18n.English, Time: orderTime})

	assert.Contains(t, got, "\n"+notes+"\n")
}

func TestCompose_Arabic(t *testing.T) {
	l := scenarioLedger(t)

	got := Compose(Request{
		Lines:    l.Lines(),
		Language: i18n.Arabic,
		Place:    "الكبابجي",
		Time:     orderTime,
	})

	lines := strings.Split(got, "\n")
	assert.Equal(t, "مرحباً! أود تقديم طلب من الكبابجي:", lines[0])
	assert.Equal(t, separator, lines[1])
	assert.Contains(t, got, "وقت الطلب: 2026/10/17 19:30")
	assert.True(t, strings.HasSuffix(got, "شكراً لكم!"))
	assert.Contains(t, got, "*الإجمالي: Ksh 7,400*")
	assert.Contains(t, got, "المجموع الفرعي: Ksh 7,400")
}

func TestCompose_EmptyCart(t *testing.T) {
	got := Compose(Request{Language: i18n.English, Time: orderTime})

	assert.Contains(t, got, "Subtotal: Ksh 0")
	assert.Contains(t, got, "*Total: Ksh 0*")
}

func TestEncode_MatchesEncodeURIComponent(t *testing.T) {
	cases := map[string]string{
		"Hello World!":      "Hello%20World!",
		"a+b=c&d":           "a%2Bb%3Dc%26d",
		"line1\nline2":      "line1%0Aline2",
		"(it's) ~fine* _-.": "(it's)%20~fine*%20_-.",
		"Ksh 1,800":         "Ksh%201%2C800",
		"×":                 "%C3%97",
	}
	for in, want := range cases {
		assert.Equal(t, want, Encode(in), "input %q", in)
	}
}

func TestEncode_RoundTrips(t *testing.T) {
	msg := Compose(Request{Lines: scenarioLedger(t).Lines(), Notes: "100% halal?", Language: i18n.Arabic, Time: orderTime})

	decoded, err := url.PathUnescape(Encode(msg))
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestDeepLink(t *testing.T) {
	assert.Equal(t,
		"https://wa.me/254799025071?text=Hi%20there",
		DeepLink("", "+254 799 025-071", "Hi there"),
	)
	assert.Equal(t, "https://api.whatsapp.com/254700000000", DeepLink("api.whatsapp.com/", "254700000000", ""))
}

func TestQuickOrderMessage(t *testing.T) {
	assert.Equal(t,
		"Hello! I'd like to place an order from El Kebabgy Gallant Mall Parklands.",
		QuickOrderMessage("El Kebabgy Gallant Mall Parklands", i18n.English),
	)
	assert.Equal(t, "مرحباً! أود تقديم طلب.", QuickOrderMessage("", i18n.Arabic))
}

func TestDirectory(t *testing.T) {
	branches := []Branch{
		{ID: "kilimani", Name: "Kilimani", WhatsApp: "+254769723159"},
		{ID: "parklands", Name: "Parklands", NameLocalized: i18n.Localized{i18n.Arabic: "باركلاندز"}, WhatsApp: "+254799025071"},
	}

	d, err := NewDirectory(branches, "parklands")
	require.NoError(t, err)

	b, err := d.Get("")
	require.NoError(t, err)
	assert.Equal(t, "parklands", b.ID)
	assert.Equal(t, "باركلاندز", b.DisplayName(i18n.Arabic))

	_, err = d.Get("westlands")
	assert.ErrorIs(t, err, ErrUnknownBranch)

	d, err = NewDirectory(branches, "missing")
	require.NoError(t, err)
	b, _ = d.Get("")
	assert.Equal(t, "kilimani", b.ID, "unknown default falls back to the first branch")
	assert.Len(t, d.All(), 2)

	_, err = NewDirectory(nil, "")
	assert.ErrorIs(t, err, ErrNoBranches)
}
