package order

import (
	"time"

	"github.com/el-modasser/elkababgy/internal/i18n"
)

type phrases struct {
	greeting     string
	greetingFrom string
	header       string
	quantity     string
	subtotal     string
	instructions string
	total        string
	timestamp    string
	closing      string
	quickOrder   string
	quickOrderAt string
	timeLayout   string
}

const separator = "━━━━━━━━━━━━━━━━━━━━"

var byLanguage = map[i18n.Language]phrases{
	i18n.English: {
		greeting:     "Hello! I'd like to place an order:",
		greetingFrom: "Hello! I'd like to place an order from %s:",
		header:       "*Order Details*",
		quantity:     "Qty: %d × %s = %s",
		subtotal:     "Subtotal: %s",
		instructions: "*Special Instructions:*",
		total:        "*Total: %s*",
		timestamp:    "Order time: %s",
		closing:      "Thank you!",
		quickOrder:   "Hello! I'd like to place an order.",
		quickOrderAt: "Hello! I'd like to place an order from %s.",
		timeLayout:   "Jan 2, 2006 at 3:04 PM",
	},
	i18n.Arabic: {
		greeting:     "مرحباً! أود تقديم طلب:",
		greetingFrom: "مرحباً! أود تقديم طلب من %s:",
		header:       "*تفاصيل الطلب*",
		quantity:     "الكمية: %d × %s = %s",
		subtotal:     "المجموع الفرعي: %s",
		instructions: "*تعليمات خاصة:*",
		total:        "*الإجمالي: %s*",
		timestamp:    "وقت الطلب: %s",
		closing:      "شكراً لكم!",
		quickOrder:   "مرحباً! أود تقديم طلب.",
		quickOrderAt: "مرحباً! أود تقديم طلب من %s.",
		timeLayout:   "2006/01/02 15:04",
	},
}

func phrasesFor(lang i18n.Language) phrases {
	if p, ok := byLanguage[lang]; ok {
		return p
	}
	return byLanguage[i18n.Default]
}

func formatTime(t time.Time, lang i18n.Language) string {
	return t.Format(phrasesFor(lang).timeLayout)
}
