package schema

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every tag. Stripped tags leave a space behind so that
// adjacent block elements do not glue their words together.
var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// NormalizeText prepares a text field for output: markup is stripped, entities
// unescaped, whitespace collapsed and the result trimmed. When max is
// positive the text is cut at the last whole word that ends at or before max
// runes. A first word longer than max is cut hard at max.
func NormalizeText(s string, max int) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(stripPolicy.Sanitize(escapeStrayLT(s)))
	s = strings.Join(strings.Fields(s), " ")
	if max > 0 {
		s = truncateWords(s, max)
	}
	return s
}

// escapeStrayLT escapes every '<' that cannot open a tag, so "x<y" or "1 < 2"
// survive sanitizing. A tag opener is followed by a letter, '/', '!' or '?'
// and closed by a '>' before the next '<'.
func escapeStrayLT(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && !opensTag(s[i+1:]) {
			b.WriteString("&lt;")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func opensTag(rest string) bool {
	if rest == "" {
		return false
	}
	c := rest[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '/' || c == '!' || c == '?') {
		return false
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return false
	}
	next := strings.IndexByte(rest, '<')
	return next < 0 || end < next
}

func truncateWords(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if unicode.IsSpace(runes[max]) {
		return strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace)
	}
	cut := runes[:max]
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	return string(cut)
}

// Describe derives a page description: the explicit description, else the
// excerpt, else the body.
func (p PageSummary) Describe() string {
	return firstNonEmpty(
		strings.TrimSpace(p.Description),
		strings.TrimSpace(p.Excerpt),
		strings.TrimSpace(p.Body),
	)
}

// wordCount counts words in normalized text.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
