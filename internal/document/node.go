package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Elements returns every element node under root in document order,
// including root itself when it is an element.
func Elements(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// ChildElements returns the direct element children of n.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Text collects the full descendant text content of n.
func Text(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// NormalizedText collapses whitespace runs in n's text content to
// single spaces.
func NormalizedText(n *html.Node) string {
	return strings.Join(strings.Fields(Text(n)), " ")
}

// InnerHTML renders n's children only, excluding n's own tag.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			continue
		}
	}
	return buf.String()
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries the named attribute.
func HasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// PathOf builds a positional path for n, e.g. /html[1]/body[1]/div[3].
// The path is keyed on tag names and same-tag sibling positions only,
// so it resolves against a fresh parse of identical markup. It is also
// a valid XPath expression.
func PathOf(n *html.Node) string {
	var segs []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		pos := 1
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sib.Type == html.ElementNode && sib.Data == cur.Data {
				pos++
			}
		}
		segs = append(segs, fmt.Sprintf("%s[%d]", cur.Data, pos))
	}
	// reverse into root-first order
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return "/" + strings.Join(segs, "/")
}

// ResolvePath re-locates the element addressed by a PathOf-style path
// against the current tree. Returns nil when the path no longer exists.
func ResolvePath(root *html.Node, path string) *html.Node {
	if path == "" {
		return nil
	}
	n, err := htmlquery.Query(root, path)
	if err != nil {
		return nil
	}
	return n
}
