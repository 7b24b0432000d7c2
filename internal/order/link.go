package order

import (
	"strings"
)

// DefaultHost is the WhatsApp click-to-chat host.
const DefaultHost = "wa.me"

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s as a URL component, leaving only
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) unescaped. Spaces become %20.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Recipient reduces a phone number to the digits click-to-chat expects.
func Recipient(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// DeepLink builds https://<host>/<recipient>?text=<encoded message>.
func DeepLink(host, recipient, message string) string {
	if host == "" {
		host = DefaultHost
	}
	link := "https://" + strings.TrimRight(host, "/") + "/" + Recipient(recipient)
	if message == "" {
		return link
	}
	return link + "?text=" + Encode(message)
}
