package capture

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LDJSONType is the script type carrying JSON-LD.
const LDJSONType = "application/ld+json"

// Extraction is the result of scanning one HTML page.
type Extraction struct {
	// Documents are the decoded ld+json documents in page order. A script
	// holding a JSON array contributes one document per element.
	Documents []any
	// Warnings describe skipped blocks.
	Warnings []string
}

// ExtractHTML collects every <script type="application/ld+json"> document in
// r. Blocks that fail to decode are skipped with a warning; only unreadable
// input is an error.
func ExtractHTML(r io.Reader) (Extraction, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Extraction{}, fmt.Errorf("parse html: %w", err)
	}

	var ex Extraction
	block := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && isLDJSON(n) {
			block++
			ex.add(block, scriptText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ex, nil
}

func (ex *Extraction) add(block int, text string) {
	if strings.TrimSpace(text) == "" {
		ex.Warnings = append(ex.Warnings, fmt.Sprintf("ld+json block %d: empty", block))
		return
	}
	v, err := decode([]byte(text))
	if err != nil {
		ex.Warnings = append(ex.Warnings, fmt.Sprintf("ld+json block %d: %v", block, err))
		return
	}
	switch x := v.(type) {
	case map[string]any:
		ex.Documents = append(ex.Documents, x)
	case []any:
		for i, d := range x {
			if _, ok := d.(map[string]any); !ok {
				ex.Warnings = append(ex.Warnings, fmt.Sprintf("ld+json block %d: item %d is not an object", block, i))
				continue
			}
			ex.Documents = append(ex.Documents, d)
		}
	default:
		ex.Warnings = append(ex.Warnings, fmt.Sprintf("ld+json block %d: not an object", block))
	}
}

// isLDJSON matches the type attribute, ignoring case and media type parameters.
func isLDJSON(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "type" {
			continue
		}
		mt, _, _ := strings.Cut(a.Val, ";")
		return strings.EqualFold(strings.TrimSpace(mt), LDJSONType)
	}
	return false
}

func scriptText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
