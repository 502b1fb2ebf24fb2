package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const site = `<!DOCTYPE html>
<html>
<head><title>resume</title></head>
<body>
<p>Visitors: <span id="count">loading<b>...</b></span></p>
<p id="footer">footer</p>
</body>
</html>`

func parse(t *testing.T, source string) *HTMLDocument {
	doc, err := ParseHTML(strings.NewReader(source))
	if err != nil {
		t.Fatalf("failed to parse page: %+v", err)
	}

	return doc
}

func findsElementById(t *testing.T) {
	doc := parse(t, site)

	element, ok := doc.ElementByID(CountElementID)
	if !assert.True(t, ok) {
		return
	}

	assert.Equal(t, "loading...", element.Text())
}

func reportsMissingElement(t *testing.T) {
	doc := parse(t, site)

	_, ok := doc.ElementByID("missing")
	assert.False(t, ok)
}

func replacesElementText(t *testing.T) {
	doc := parse(t, site)

	element, _ := doc.ElementByID(CountElementID)
	element.SetText("42")

	assert.Equal(t, "42", element.Text())
	assert.Contains(t, doc.String(), `<span id="count">42</span>`)
	assert.Contains(t, doc.String(), `<p id="footer">footer</p>`)
}

func escapesText(t *testing.T) {
	doc := parse(t, site)

	element, _ := doc.ElementByID(CountElementID)
	element.SetText("<script>")

	assert.Contains(t, doc.String(), `<span id="count">&lt;script&gt;</span>`)
}

func TestHTMLDocument(t *testing.T) {
	t.Run("finds an element by id", findsElementById)
	t.Run("reports a missing element", reportsMissingElement)
	t.Run("replaces element text", replacesElementText)
	t.Run("escapes element text", escapesText)
}
