package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is the active UI language of a visitor.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Default is used whenever a request carries no usable language.
const Default = English

var supported = map[Language]language.Tag{
	English: language.English,
	Arabic:  language.Arabic,
}

// Parse maps user input ("AR", "en-KE", "") onto a supported language.
// Anything unknown falls back to Default.
func Parse(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default
	}

	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}

	l := Language(s)
	if _, ok := supported[l]; !ok {
		return Default
	}
	return l
}

func (l Language) Valid() bool {
	_, ok := supported[l]
	return ok
}

// Tag returns the x/text language tag.
func (l Language) Tag() language.Tag {
	if t, ok := supported[l]; ok {
		return t
	}
	return supported[Default]
}

// RTL reports whether the language is written right to left.
func (l Language) RTL() bool {
	return l == Arabic
}

func (l Language) String() string {
	return string(l)
}

// Localized holds per-language variants of a text, keyed by language code.
type Localized map[Language]string

// Get returns the variant for lang, or fallback when none is set.
func (t Localized) Get(lang Language, fallback string) string {
	if v := strings.TrimSpace(t[lang]); v != "" {
		return t[lang]
	}
	return fallback
}
