package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/configsmith/engine/internal/document"
)

const page = `<!DOCTYPE html>
<html>
<body>
	<section id="specs">
		<h3>Specifications</h3>
		<table><tr><td>Weight</td><td>2kg</td></tr></table>
	</section>
	<div class="item">a</div>
	<div class="item">b</div>
</body>
</html>`

func parse(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.ParseString(page, "")
	require.NoError(t, err)
	return doc
}

func TestDocumentScope(t *testing.T) {
	doc := parse(t)

	for _, typ := range []Type{Document, ""} {
		nodes, meta, err := Resolve(doc, Spec{Type: typ}, nil)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Same(t, doc.Root(), nodes[0])
		assert.Equal(t, Document, meta.Scope)
	}
}

func TestItemScope(t *testing.T) {
	doc := parse(t)
	items := []*html.Node{doc.Root().FirstChild}

	nodes, meta, err := Resolve(doc, Spec{Type: Item}, items)
	require.NoError(t, err)
	assert.Equal(t, items, nodes)
	assert.Equal(t, Item, meta.Scope)
	assert.Equal(t, 1, meta.Count)
}

func TestItemScopeWithNoItems(t *testing.T) {
	doc := parse(t)
	nodes, meta, err := Resolve(doc, Spec{Type: Item}, nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Equal(t, 0, meta.Count)
}

func TestAnchorBySelector(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: BySelector, CSS: "section#specs"}}

	nodes, meta, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "section", nodes[0].Data)
	assert.Equal(t, BySelector, meta.Strategy)
	assert.False(t, meta.Cached)
}

func TestAnchorByPath(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: ByPath, Path: "/html[1]/body[1]/section[1]"}}

	nodes, meta, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "section", nodes[0].Data)
	assert.Equal(t, 1, meta.Count)
}

func TestAnchorByPathMalformed(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: ByPath, Path: "/html[[["}}

	nodes, _, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestAnchorByText(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: ByText, TextHint: "Specifications"}}

	nodes, _, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	require.NotEmpty(t, nodes)

	// The deepest match (the h3) must be present.
	var tags []string
	for _, n := range nodes {
		tags = append(tags, n.Data)
	}
	assert.Contains(t, tags, "h3")
	assert.Contains(t, tags, "section")
}

func TestAnchorByTextEmptyHint(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: ByText}}

	nodes, _, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestAnchorCacheHit(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: BySelector, CSS: "section#specs"}}

	first, meta1, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	assert.False(t, meta1.Cached)

	second, meta2, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	assert.True(t, meta2.Cached)
	assert.Equal(t, first, second)
}

func TestAnchorCacheKeyedOnAllParameters(t *testing.T) {
	doc := parse(t)

	_, meta, err := Resolve(doc, Spec{Type: Anchor,
		Anchor: AnchorSpec{Strategy: ByText, TextHint: "Specifications"}}, nil)
	require.NoError(t, err)
	assert.False(t, meta.Cached)

	// Same strategy, different hint: a distinct cache entry.
	_, meta, err = Resolve(doc, Spec{Type: Anchor,
		Anchor: AnchorSpec{Strategy: ByText, TextHint: "Weight"}}, nil)
	require.NoError(t, err)
	assert.False(t, meta.Cached)
}

func TestUnknownStrategyYieldsEmpty(t *testing.T) {
	doc := parse(t)
	spec := Spec{Type: Anchor, Anchor: AnchorSpec{Strategy: "regex", TextHint: "x"}}

	nodes, meta, err := Resolve(doc, spec, nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Equal(t, 0, meta.Count)
}

func TestUnknownScopeTypeIsAnError(t *testing.T) {
	doc := parse(t)
	_, _, err := Resolve(doc, Spec{Type: "viewport"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport")
}
