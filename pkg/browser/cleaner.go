package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedPage holds the result of cleaning raw page HTML.
type CleanedPage struct {
	HTML      string
	Text      string
	Title     string
	Truncated bool
}

// skippedTags are removed entirely, subtree included.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"embed":    true,
	"object":   true,
	"svg":      true,
	"template": true,
}

// blockTags start on a new line in both text and HTML output.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "fieldset": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true, "br": true,
}

// voidTags have no closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// keptGlobalAttrs survive cleaning on any element; they are the attributes
// an automation client needs for selector targeting.
var keptGlobalAttrs = map[string]bool{
	"id": true, "class": true, "role": true, "name": true,
	"aria-label": true, "href": true, "src": true, "alt": true,
	"type": true, "value": true, "placeholder": true, "action": true,
}

// cleanPage parses raw HTML and produces cleaned HTML and plain text with
// scripts, styles, and other noise removed. Output is capped at maxLength
// characters per format.
func cleanPage(rawHTML string, maxLength int) (*CleanedPage, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedPage{Title: findTitle(doc)}

	var htmlOut, textOut strings.Builder
	truncated := walk(doc, &htmlOut, &textOut, maxLength)

	result.HTML = strings.TrimSpace(htmlOut.String())
	result.Text = collapseBlankLines(strings.TrimSpace(textOut.String()))
	result.Truncated = truncated
	return result, nil
}

// walk renders a node into both builders, returning true once either output
// hit the length cap.
func walk(n *html.Node, htmlOut, textOut *strings.Builder, maxLength int) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return false
		}
		if textOut.Len() > 0 {
			textOut.WriteString(" ")
		}
		textOut.WriteString(text)
		htmlOut.WriteString(html.EscapeString(text))
		return htmlOut.Len() >= maxLength || textOut.Len() >= maxLength

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedTags[tag] {
			return false
		}

		if blockTags[tag] {
			htmlOut.WriteString("\n")
			textOut.WriteString("\n")
		}

		htmlOut.WriteString("<" + tag)
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			if keptGlobalAttrs[key] || strings.HasPrefix(key, "data-") {
				fmt.Fprintf(htmlOut, " %s=%q", key, attr.Val)
			}
		}
		htmlOut.WriteString(">")

		truncated := walkChildren(n, htmlOut, textOut, maxLength)

		if !voidTags[tag] {
			htmlOut.WriteString("</" + tag + ">")
		}
		return truncated || htmlOut.Len() >= maxLength
	}

	return walkChildren(n, htmlOut, textOut, maxLength)
}

func walkChildren(n *html.Node, htmlOut, textOut *strings.Builder, maxLength int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, htmlOut, textOut, maxLength) {
			return true
		}
	}
	return false
}

func findTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return title
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

// truncateWithNotice caps s at maxLen characters, appending a notice when
// content was dropped.
func truncateWithNotice(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("\n\n[Content truncated: %d of %d characters shown]", maxLen, len(s))
}
