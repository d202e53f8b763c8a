package localization

import (
	"golang.org/x/text/language"
)

// Lang is the closed set of languages the metadata store carries a table
// for. German is the primary locale and the default.
type Lang string

const (
	German  Lang = "de"
	English Lang = "en"
)

// matcher order doubles as the default: an empty or unparseable lang
// parameter matches German.
var matcher = language.NewMatcher([]language.Tag{
	language.German,
	language.English,
})

// ParseLang maps the lang query parameter to a supported language. Accepts
// anything x/text can make sense of ("en", "en-US", "de-AT", ...).
func ParseLang(q string) Lang {
	if q == "" {
		return German
	}
	tag, err := language.Parse(q)
	if err != nil {
		return German
	}
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return English
	}
	return German
}

// UseEnglish reports whether lookups should hit the English table.
func (l Lang) UseEnglish() bool { return l == English }

// String returns the wire token used in redirect URLs.
func (l Lang) String() string { return string(l) }
