package page

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// HTMLDocument is a parsed HTML page whose elements can be updated in place
// and rendered back out.
type HTMLDocument struct {
	root *html.Node
}

func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}

	return &HTMLDocument{root: root}, nil
}

func (d *HTMLDocument) ElementByID(id string) (Element, bool) {
	node := find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if node == nil {
		return nil, false
	}

	return &htmlElement{node: node}, true
}

func (d *HTMLDocument) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *HTMLDocument) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}

	return b.String()
}

type htmlElement struct {
	node *html.Node
}

func (e *htmlElement) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})

	return b.String()
}

func (e *htmlElement) SetText(text string) {
	for child := e.node.FirstChild; child != nil; child = e.node.FirstChild {
		e.node.RemoveChild(child)
	}

	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}

	return ""
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := find(child, match); found != nil {
			return found
		}
	}

	return nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}
