// Package page is the rendering surface the visitor count is written to.
package page

// CountElementID identifies the element that displays the visitor count.
const CountElementID = "count"

type Element interface {
	Text() string
	SetText(text string)
}

type Document interface {
	ElementByID(id string) (Element, bool)
}
