package scope

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/configsmith/engine/internal/document"
	"github.com/configsmith/engine/internal/selector"
)

// Type tags the scope variants.
type Type string

const (
	// Document scopes a field to the whole page.
	Document Type = "document"
	// Item scopes a field to a caller-supplied item node set, e.g.
	// the members of a confirmed candidate.
	Item Type = "item"
	// Anchor scopes a field relative to a located reference point.
	Anchor Type = "anchor"
)

// AnchorStrategy selects how an anchor is located.
type AnchorStrategy string

const (
	// BySelector locates anchors with a dual selector spec.
	BySelector AnchorStrategy = "selector"
	// ByPath evaluates a raw path expression against the root.
	ByPath AnchorStrategy = "path"
	// ByText finds elements whose normalized text contains a hint.
	ByText AnchorStrategy = "text"
)

// AnchorSpec carries the parameters for anchor location.
type AnchorSpec struct {
	Strategy AnchorStrategy `json:"strategy" yaml:"strategy"`
	CSS      string         `json:"css,omitempty" yaml:"css,omitempty"`
	XPath    string         `json:"xpath,omitempty" yaml:"xpath,omitempty"`
	Path     string         `json:"path,omitempty" yaml:"path,omitempty"`
	TextHint string         `json:"text_hint,omitempty" yaml:"text_hint,omitempty"`
}

// Spec is a tagged scope specification. An empty Type means Document.
type Spec struct {
	Type   Type       `json:"type" yaml:"type"`
	Anchor AnchorSpec `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// Meta describes how a scope resolved.
type Meta struct {
	Scope    Type           `json:"scope"`
	Strategy AnchorStrategy `json:"strategy,omitempty"`
	Count    int            `json:"count"`
	Cached   bool           `json:"cached,omitempty"`
}

// Resolve produces the base node set a field's selector is evaluated
// against. Item scope echoes the caller-supplied nodes. Anchor results
// are cached on the Document under the strategy and all parameters, so
// repeated fields sharing an anchor resolve it once per document load.
// An unrecognized scope type is caller misuse and returns an error.
func Resolve(doc *document.Document, spec Spec, itemNodes []*html.Node) ([]*html.Node, Meta, error) {
	switch spec.Type {
	case Document, "":
		return []*html.Node{doc.Root()}, Meta{Scope: Document, Count: 1}, nil

	case Item:
		return itemNodes, Meta{Scope: Item, Count: len(itemNodes)}, nil

	case Anchor:
		nodes, meta := resolveAnchor(doc, spec.Anchor)
		return nodes, meta, nil

	default:
		return nil, Meta{}, fmt.Errorf("unknown scope type %q", spec.Type)
	}
}

func resolveAnchor(doc *document.Document, a AnchorSpec) ([]*html.Node, Meta) {
	key := cacheKey(a)
	if nodes, ok := doc.CachedAnchor(key); ok {
		return nodes, Meta{Scope: Anchor, Strategy: a.Strategy, Count: len(nodes), Cached: true}
	}

	var nodes []*html.Node
	switch a.Strategy {
	case BySelector:
		nodes, _ = selector.Resolve([]*html.Node{doc.Root()},
			selector.Spec{CSS: a.CSS, XPath: a.XPath}, selector.Many)
	case ByPath:
		nodes = queryPath(doc.Root(), a.Path)
	case ByText:
		nodes = findByText(doc.Root(), a.TextHint)
	default:
		// Unknown strategies degrade to an empty anchor set; they are
		// data (a stored config), not a programming error.
		nodes = nil
	}

	doc.StoreAnchor(key, nodes)
	return nodes, Meta{Scope: Anchor, Strategy: a.Strategy, Count: len(nodes)}
}

// cacheKey combines the strategy with every anchor parameter.
func cacheKey(a AnchorSpec) string {
	return strings.Join([]string{
		string(a.Strategy), a.CSS, a.XPath, a.Path, a.TextHint,
	}, "\x00")
}

// queryPath evaluates a raw path expression; syntax faults reduce to
// zero matches.
func queryPath(root *html.Node, path string) []*html.Node {
	if path == "" {
		return nil
	}
	nodes, err := htmlquery.QueryAll(root, path)
	if err != nil {
		return nil
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil && n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

// findByText returns every element whose whitespace-collapsed text
// content contains the hint. An empty hint matches nothing.
func findByText(root *html.Node, hint string) []*html.Node {
	if hint == "" {
		return nil
	}
	var out []*html.Node
	for _, el := range document.Elements(root) {
		if strings.Contains(document.NormalizedText(el), hint) {
			out = append(out, el)
		}
	}
	return out
}
