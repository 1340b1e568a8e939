package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "li": {}, "ul": {}, "ol": {}, "section": {}, "article": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"blockquote": {}, "tr": {}, "table": {}, "header": {}, "footer": {}, "pre": {},
}

var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {},
}

// Text flattens a selection into plain text, inserting line breaks at <br>
// tags and block-element boundaries the way a browser renders them. Poem
// sources rely on this: goquery's own Text() would glue verse lines together.
func Text(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		writeNodeText(&b, node)
	}
	return b.String()
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if _, ok := skipTags[n.Data]; ok {
			return
		}
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
		_, block := blockTags[n.Data]
		if block {
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNodeText(b, c)
		}
		if block {
			b.WriteString("\n")
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNodeText(b, c)
		}
	}
}
