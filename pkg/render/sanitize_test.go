package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii untouched", "Net balance of Rs.1,000.00", "Net balance of Rs.1,000.00"},
		{"currency", "₹1,500.00", "Rs.1,500.00"},
		{"smart quotes", "‘a’ “b”", `'a' "b"`},
		{"dashes", "Jan – Feb — Mar", "Jan - Feb - Mar"},
		{"ellipsis", "more…", "more..."},
		{"pictograms", "📊 📅 📌 📈 🧾 🤖 ✅", "[REPORT] [DATE] [SUMMARY] [ANALYSIS] [GST] [AI] [CHECK]"},
		{"variation selector", "✅️ done", "[CHECK] done"},
		{"latin1 kept", "Café Zürich", "Café Zürich"},
		{"combining composed", "Cafe\u0301", "Café"},
		{"transliterated", "Łódź Dvořák", "?ódz Dvorák"},
		{"unknown emoji", "launch 🚀", "launch ?"},
		{"cjk", "東京", "??"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitizeOutputIsLatin1(t *testing.T) {
	out := Sanitize("₹ “quoted” — 📊 ok ✨ Ωmega")
	for _, r := range out {
		assert.LessOrEqual(t, r, rune(0xFF))
	}
}
