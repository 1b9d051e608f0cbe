package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Beer", "Beer"},
		{"Gin_Tonic", "Gin\\_Tonic"},
		{"a*b", "a\\*b"},
		{"cocktail [dry]", "cocktail \\[dry]"},
		{"back`tick", "back\\`tick"},
		{`a\b`, `a\\b`},
	}
	for _, tc := range cases {
		if got := EscapeMarkdown(tc.in); got != tc.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
