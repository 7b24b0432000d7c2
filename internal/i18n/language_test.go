package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestParse(t *testing.T) {
	cases := map[string]Language{
		"":      English,
		"en":    English,
		"AR":    Arabic,
		"ar-EG": Arabic,
		"en_KE": English,
		"fr":    English,
		"  ar ": Arabic,
	}

	for in, want := range cases {
		assert.Equal(t, want, Parse(in), "input %q", in)
	}
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, language.Arabic, Arabic.Tag())
	assert.Equal(t, language.English, Language("xx").Tag())
	assert.True(t, Arabic.RTL())
	assert.False(t, English.RTL())
}

func TestLocalizedGet(t *testing.T) {
	names := Localized{Arabic: "كباب"}

	assert.Equal(t, "كباب", names.Get(Arabic, "Kebab"))
	assert.Equal(t, "Kebab", names.Get(English, "Kebab"))

	var empty Localized
	assert.Equal(t, "Kebab", empty.Get(Arabic, "Kebab"))
}
