package content

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is an h2/h3 of a rendered page, used for the in-page table of contents.
type Heading struct {
	ID    string
	Text  string
	Level int
}

// inspectHTML walks a rendered fragment and returns its visible text and its h2/h3
// headings in document order.
func inspectHTML(fragment string) (string, []Heading) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", nil
	}
	var (
		text     strings.Builder
		headings []Heading
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.H2, atom.H3:
				level := 2
				if n.DataAtom == atom.H3 {
					level = 3
				}
				headings = append(headings, Heading{
					ID:    attr(n, "id"),
					Text:  collapseSpace(nodeText(n)),
					Level: level,
				})
			case atom.Script, atom.Style:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			text.WriteByte(' ')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return collapseSpace(text.String()), headings
}

// Excerpt shortens text to at most limit runes, cutting at a word boundary and appending
// an ellipsis when anything was removed.
func Excerpt(text string, limit int) string {
	text = collapseSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	cut := limit - 1
	for i := cut; i > limit/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	out := strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return out + "…"
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.Blockquote, atom.Br, atom.Tr, atom.Figcaption:
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
