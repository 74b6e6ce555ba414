package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var glyphs = strings.NewReplacer(
	"📊", "[REPORT]",
	"📅", "[DATE]",
	"📌", "[SUMMARY]",
	"📈", "[ANALYSIS]",
	"🧾", "[GST]",
	"🤖", "[AI]",
	"✅", "[CHECK]",
	"₹", "Rs.",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	"\ufe0f", "",
)

// Sanitize rewrites s into the single-byte Latin-1 range the core PDF fonts
// support. Known glyphs get ASCII stand-ins; any other rune outside Latin-1
// is reduced to its decomposed base letter or replaced with '?'. It never
// fails.
func Sanitize(s string) string {
	s = glyphs.Replace(s)

	t := transform.Chain(
		norm.NFC,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(toLatin1),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(toLatin1, s)
	}
	return out
}

func toLatin1(r rune) rune {
	if r <= unicode.MaxLatin1 {
		return r
	}
	for _, base := range norm.NFD.String(string(r)) {
		if base <= unicode.MaxLatin1 {
			return base
		}
		break
	}
	return '?'
}
