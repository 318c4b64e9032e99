package reflectpause

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ignoredTags contains markup tags whose content is never user prose
// and must not influence scoring or language detection.
var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// ExtractText strips markup from a message payload and returns the
// visible prose, space-joined. Browser-extension hosts capture rich
// editor content as HTML fragments; scoring and detection operate on
// the text alone. Input without any markup passes through trimmed.
func ExtractText(content string) string {
	if !strings.ContainsAny(content, "<>") {
		return strings.TrimSpace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Unparseable input is scored as-is rather than dropped.
		return strings.TrimSpace(content)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && ignoredTags[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	doc.Each(func(i int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			walk(node)
		}
	})

	return strings.Join(parts, " ")
}
