package parse

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	innerWhitespace = regexp.MustCompile(` {2,}`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// blockElements start a new line when they open and close.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// blockText renders a node's text keeping the line structure implied by
// <br> and block elements. Runs of spaces collapse, lines are trimmed, and at
// most one blank line separates paragraphs.
func blockText(node *html.Node) string {
	var b strings.Builder
	blockTextRecursive(node, &b)

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerWhitespace.ReplaceAllString(removeNonPrintable(line), " "))
	}
	out := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func blockTextRecursive(node *html.Node, b *strings.Builder) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		// Source newlines are layout, not content.
		b.WriteString(strings.ReplaceAll(node.Data, "\n", " "))
		return
	case html.ElementNode:
		switch node.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Script, atom.Style, atom.Noscript:
			return
		}
	case html.CommentNode:
		return
	}

	block := node.Type == html.ElementNode && blockElements[node.DataAtom]
	if block {
		b.WriteString("\n")
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		blockTextRecursive(child, b)
	}
	if block {
		b.WriteString("\n")
	}
}

// cleanText collapses all whitespace in s to single spaces and trims it.
func cleanText(s string) string {
	return strings.Join(strings.Fields(removeNonPrintable(s)), " ")
}

// selText returns the cleaned text of the first element matching selector.
func selText(s *goquery.Selection, selector string) string {
	return cleanText(s.Find(selector).First().Text())
}

// removeNonPrintable maps every space character except newline to ' ' and
// drops the rest of the non-printable runes.
func removeNonPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c == '\n':
			b.WriteRune(c)
		case unicode.IsSpace(c):
			b.WriteRune(' ')
		case unicode.IsPrint(c):
			b.WriteRune(c)
		}
	}
	return b.String()
}

// absURL resolves href against base, keeping only http(s) results.
func absURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// firstAttr returns the first non-empty attribute among names.
func firstAttr(s *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := s.Attr(n); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
