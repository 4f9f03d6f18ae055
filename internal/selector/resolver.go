package selector

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Spec is a dual selector: a CSS selector, an XPath expression, or
// both. Both absent is legal and resolves to zero matches.
type Spec struct {
	CSS   string `json:"css,omitempty" yaml:"css,omitempty"`
	XPath string `json:"xpath,omitempty" yaml:"xpath,omitempty"`
}

// Expect states how many matches the caller wants.
type Expect int

const (
	// One asks for a single node; the resolver applies tie-break rules.
	One Expect = iota
	// Many asks for the union of both strategies' matches.
	Many
)

// Strategy names reported in Meta.
const (
	StrategyCSS      = "css"
	StrategyXPath    = "xpath"
	StrategyCombined = "css+xpath"
)

// CountUnevaluated marks a per-strategy count that was never computed.
const CountUnevaluated = -1

// Meta reports which strategy produced the result and the per-strategy
// match counts. With multiple base nodes the counts reflect the last
// base processed.
type Meta struct {
	Strategy   string `json:"used"`
	CSSCount   int    `json:"css_count"`
	XPathCount int    `json:"xpath_count"`
}

// Resolve evaluates the dual selector against each base node and
// concatenates the matches. A malformed CSS selector or XPath
// expression counts as zero matches for that strategy; resolution
// falls through to whatever still succeeds and never errors.
func Resolve(bases []*html.Node, spec Spec, expect Expect) ([]*html.Node, Meta) {
	var out []*html.Node
	var meta Meta
	for _, base := range bases {
		hits, m := resolveOn(base, spec, expect)
		out = append(out, hits...)
		meta = m
	}
	return out, meta
}

func resolveOn(base *html.Node, spec Spec, expect Expect) ([]*html.Node, Meta) {
	cssHits := queryCSS(base, spec.CSS)
	meta := Meta{CSSCount: len(cssHits), XPathCount: CountUnevaluated}

	if expect == Many {
		xpathHits := queryXPath(base, spec.XPath)
		meta.XPathCount = len(xpathHits)
		meta.Strategy = StrategyCombined
		return union(cssHits, xpathHits), meta
	}

	// expect=one: an exact single CSS hit wins outright.
	if len(cssHits) == 1 {
		meta.Strategy = StrategyCSS
		return cssHits, meta
	}
	xpathHits := queryXPath(base, spec.XPath)
	meta.XPathCount = len(xpathHits)
	if len(xpathHits) == 1 {
		meta.Strategy = StrategyXPath
		return xpathHits, meta
	}

	// Fall back to a non-empty set, smaller preferred, CSS on ties.
	switch {
	case len(cssHits) == 0 && len(xpathHits) == 0:
		return nil, meta
	case len(xpathHits) == 0:
		meta.Strategy = StrategyCSS
		return cssHits, meta
	case len(cssHits) == 0:
		meta.Strategy = StrategyXPath
		return xpathHits, meta
	case len(cssHits) <= len(xpathHits):
		meta.Strategy = StrategyCSS
		return cssHits, meta
	default:
		meta.Strategy = StrategyXPath
		return xpathHits, meta
	}
}

// queryCSS finds descendants of base matching the CSS selector.
// Compilation errors reduce to zero matches.
func queryCSS(base *html.Node, css string) []*html.Node {
	if css == "" {
		return nil
	}
	matcher, err := cascadia.Compile(css)
	if err != nil {
		return nil
	}
	sel := goquery.NewDocumentFromNode(base).FindMatcher(matcher)
	return sel.Nodes
}

// queryXPath evaluates the expression against base, keeping element
// nodes only. Syntax errors reduce to zero matches.
func queryXPath(base *html.Node, xpathExpr string) []*html.Node {
	if xpathExpr == "" {
		return nil
	}
	nodes, err := htmlquery.QueryAll(base, xpathExpr)
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

// union concatenates two match sets with identity de-duplication,
// first set's order first.
func union(a, b []*html.Node) []*html.Node {
	seen := make(map[*html.Node]struct{}, len(a)+len(b))
	out := make([]*html.Node, 0, len(a)+len(b))
	for _, n := range a {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, n := range b {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
