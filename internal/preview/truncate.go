package preview

import (
	"strings"

	"github.com/rivo/uniseg"
)

const maxNameGraphemes = 45

// truncateName shortens names longer than 45 characters to their first 45
// plus an ellipsis. Characters are counted as grapheme clusters, so a
// combining sequence or emoji counts as one and is never split.
func truncateName(name string) string {
	if uniseg.GraphemeClusterCount(name) <= maxNameGraphemes {
		return name
	}

	var b strings.Builder
	rest := name
	state := -1
	for i := 0; i < maxNameGraphemes; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
	}
	b.WriteString("...")
	return b.String()
}
