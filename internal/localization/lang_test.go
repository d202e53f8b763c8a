package localization_test

import (
	"testing"

	"github.com/campusnav/preview-server/internal/localization"
)

func TestParseLang(t *testing.T) {
	cases := []struct {
		in   string
		want localization.Lang
	}{
		{"", localization.German},
		{"de", localization.German},
		{"de-AT", localization.German},
		{"en", localization.English},
		{"en-US", localization.English},
		{"fr", localization.German}, // unsupported falls back to the default
		{"not-a-tag!!", localization.German},
	}

	for _, c := range cases {
		if got := localization.ParseLang(c.in); got != c.want {
			t.Errorf("ParseLang(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestUseEnglish(t *testing.T) {
	if localization.German.UseEnglish() {
		t.Error("German should not use the English table")
	}
	if !localization.English.UseEnglish() {
		t.Error("English should use the English table")
	}
}
