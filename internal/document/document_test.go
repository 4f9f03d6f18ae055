package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
	<div id="header">Site</div>
	<div id="content">
		<p class="intro">Hello   <b>world</b></p>
		<p>Second</p>
	</div>
	<div id="footer">Bye</div>
</body>
</html>`

func TestParseString(t *testing.T) {
	doc, err := ParseString(samplePage, "https://example.com/list")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/list", doc.URL())
	assert.NotNil(t, doc.Root())
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "")
	assert.Error(t, err)
}

func TestParseRejectsOversizedInput(t *testing.T) {
	big := strings.Repeat("a", MaxHTMLSize+1)
	_, err := Parse(strings.NewReader(big), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
}

func TestTextAndNormalizedText(t *testing.T) {
	doc, err := ParseString(samplePage, "")
	require.NoError(t, err)

	intro := findByID(doc.Root(), "content")
	require.NotNil(t, intro)
	assert.Equal(t, "Hello world Second", NormalizedText(intro))
	assert.Contains(t, Text(intro), "Hello")
}

func TestInnerAndOuterHTML(t *testing.T) {
	doc, err := ParseString(`<div id="x"><b>bold</b> text</div>`, "")
	require.NoError(t, err)

	div := findByID(doc.Root(), "x")
	require.NotNil(t, div)
	assert.Equal(t, "<b>bold</b> text", InnerHTML(div))
	assert.Equal(t, `<div id="x"><b>bold</b> text</div>`, OuterHTML(div))
}

func TestAttrHelpers(t *testing.T) {
	doc, err := ParseString(`<a id="l" href="/next" data-k="v">go</a>`, "")
	require.NoError(t, err)

	a := findByID(doc.Root(), "l")
	require.NotNil(t, a)
	assert.Equal(t, "/next", Attr(a, "href"))
	assert.Equal(t, "", Attr(a, "missing"))
	assert.True(t, HasAttr(a, "data-k"))
	assert.False(t, HasAttr(a, "rel"))
}

func TestPathRoundTripAcrossReparse(t *testing.T) {
	doc, err := ParseString(samplePage, "")
	require.NoError(t, err)

	footer := findByID(doc.Root(), "footer")
	require.NotNil(t, footer)

	path := PathOf(footer)
	assert.Equal(t, "/html[1]/body[1]/div[3]", path)

	// A path built on one parse must resolve on a fresh parse of the
	// same markup.
	doc2, err := ParseString(samplePage, "")
	require.NoError(t, err)
	got := ResolvePath(doc2.Root(), path)
	require.NotNil(t, got)
	assert.Equal(t, "footer", Attr(got, "id"))
}

func TestResolvePathMisses(t *testing.T) {
	doc, err := ParseString(samplePage, "")
	require.NoError(t, err)

	assert.Nil(t, ResolvePath(doc.Root(), ""))
	assert.Nil(t, ResolvePath(doc.Root(), "/html[1]/body[1]/div[9]"))
}

func TestAnchorCacheIsPerDocument(t *testing.T) {
	doc1, err := ParseString(samplePage, "")
	require.NoError(t, err)
	doc2, err := ParseString(samplePage, "")
	require.NoError(t, err)

	node := findByID(doc1.Root(), "header")
	require.NotNil(t, node)
	doc1.StoreAnchor("k", []*html.Node{node})

	got, ok := doc1.CachedAnchor("k")
	require.True(t, ok)
	assert.Same(t, node, got[0])

	_, ok = doc2.CachedAnchor("k")
	assert.False(t, ok)
}

func TestElementsDocumentOrder(t *testing.T) {
	doc, err := ParseString(samplePage, "")
	require.NoError(t, err)

	var ids []string
	for _, el := range Elements(doc.Root()) {
		if id := Attr(el, "id"); id != "" {
			ids = append(ids, id)
		}
	}
	assert.Equal(t, []string{"header", "content", "footer"}, ids)
}

func TestChildElements(t *testing.T) {
	doc, err := ParseString(samplePage, "")
	require.NoError(t, err)

	content := findByID(doc.Root(), "content")
	require.NotNil(t, content)
	kids := ChildElements(content)
	require.Len(t, kids, 2)
	assert.Equal(t, "p", kids[0].Data)
}

func findByID(root *html.Node, id string) *html.Node {
	for _, el := range Elements(root) {
		if Attr(el, "id") == id {
			return el
		}
	}
	return nil
}
