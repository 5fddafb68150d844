package process

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true,
}

// blockText walks n depth first. Every non-empty text node is trimmed and
// followed by a newline; block elements add a newline on either side, so two
// adjacent blocks end up separated by a blank line.
func blockText(n *html.Node) string {
	var sb strings.Builder
	extractTextNodes(n, &sb)
	return sb.String()
}

func extractTextNodes(n *html.Node, sb *strings.Builder) {
	block := false
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "iframe", "svg":
			return
		}
		block = blockElements[n.Data]
	}

	if block {
		sb.WriteString("\n")
	}

	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTextNodes(c, sb)
	}

	if block {
		sb.WriteString("\n")
	}
}

var (
	// UTF-8 pilcrow and right single quote that were decoded as latin-1
	// upstream.
	mojibake = strings.NewReplacer(
		"\r\n", "\n",
		"Â¶", "",
		"â\u0080\u0099", "'",
	)
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
	whitespaceRun  = regexp.MustCompile(`\s{2,}`)
)

// CleanText turns block-extracted text into prose: wrapped lines inside a
// paragraph are joined with spaces, paragraphs are separated by exactly one
// blank line, and no other whitespace run survives. CleanText(CleanText(s))
// == CleanText(s).
func CleanText(text string) string {
	for {
		fixed := mojibake.Replace(text)
		if fixed == text {
			break
		}
		text = fixed
	}
	text = strings.ReplaceAll(text, " \n", "\n")

	// Paragraphs must be split out before single newlines become spaces.
	paragraphs := paragraphBreak.Split(text, -1)

	kept := paragraphs[:0]
	for _, p := range paragraphs {
		p = strings.ReplaceAll(p, "\n", " ")
		p = whitespaceRun.ReplaceAllString(p, " ")
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}
