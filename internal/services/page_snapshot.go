package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PageSnapshot is read-only access to a rendered document tree
type PageSnapshot interface {
	Find(selector string) *goquery.Selection
	HTML() string
}

// HTMLSnapshot is a PageSnapshot backed by a parsed HTML string
type HTMLSnapshot struct {
	doc    *goquery.Document
	markup string
}

// NewHTMLSnapshot parses the rendered markup of a page
func NewHTMLSnapshot(markup string) (*HTMLSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}
	return &HTMLSnapshot{doc: doc, markup: markup}, nil
}

// Find runs a CSS selector against the whole document
func (s *HTMLSnapshot) Find(selector string) *goquery.Selection {
	return s.doc.Find(selector)
}

// HTML returns the markup the snapshot was built from
func (s *HTMLSnapshot) HTML() string {
	return s.markup
}

var (
	whitespaceRun = regexp.MustCompile(`[ \t\n\r\f]+`)

	blockElements = map[atom.Atom]bool{
		atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
		atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Dd: true, atom.Fieldset: true,
		atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
		atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
		atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
		atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
	}
)

// InnerText approximates the browser's innerText for the first node of sel:
// source whitespace collapses to single spaces, <br> and block elements break lines,
// and blank lines are dropped. Non-breaking spaces are kept as-is.
func InnerText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	writeInnerText(&b, sel.Get(0))

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Trim(line, " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func writeInnerText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(whitespaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Td, atom.Th:
			b.WriteByte(' ')
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeInnerText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// InnerHTML returns the serialized children of the first node of sel
func InnerHTML(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	markup, err := sel.Html()
	if err != nil {
		return ""
	}
	return markup
}
