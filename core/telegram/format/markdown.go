package format

import "strings"

// Specials of Telegram's legacy Markdown parse mode, the mode used by the
// send helpers.
const mdSpecials = "_*`["

// EscapeMarkdown escapes Markdown special characters so arbitrary names
// (users, drinks) can be embedded in formatted messages.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(mdSpecials, r) || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
