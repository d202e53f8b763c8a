package preview

import (
	"strings"
	"testing"
)

func TestTruncateName_ShortNameUnchanged(t *testing.T) {
	if got := truncateName("Hörsaal 1"); got != "Hörsaal 1" {
		t.Errorf("short name must pass through, got %q", got)
	}
}

func TestTruncateName_Exactly45Unchanged(t *testing.T) {
	name := strings.Repeat("a", 45)
	if got := truncateName(name); got != name {
		t.Errorf("a 45-character name must be unchanged, got %q", got)
	}
}

func TestTruncateName_46Truncated(t *testing.T) {
	name := strings.Repeat("a", 46)
	want := strings.Repeat("a", 45) + "..."
	if got := truncateName(name); got != want {
		t.Errorf("truncateName(46×a) = %q, want %q", got, want)
	}
}

func TestTruncateName_MultiByteRunesCountAsOne(t *testing.T) {
	// 45 umlauts are 45 characters even though they are 90 bytes.
	name := strings.Repeat("ö", 45)
	if got := truncateName(name); got != name {
		t.Errorf("45 multi-byte characters must be unchanged, got %q", got)
	}
}

func TestTruncateName_NeverSplitsAGrapheme(t *testing.T) {
	// 50 characters with a combining sequence (e + U+0301) as the 45th:
	// the truncation point lands exactly on it and must keep the whole
	// cluster.
	name := strings.Repeat("a", 44) + "e\u0301" + strings.Repeat("b", 5)
	want := strings.Repeat("a", 44) + "e\u0301" + "..."
	if got := truncateName(name); got != want {
		t.Errorf("truncateName = %q, want %q", got, want)
	}
	if strings.Contains(truncateName(name), "e...") {
		t.Error("truncation split the combining sequence")
	}
}
