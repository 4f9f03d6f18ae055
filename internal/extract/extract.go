// Package extract converts matched node sets into raw values ready for
// pipeline processing.
package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/configsmith/engine/internal/document"
)

// Mode selects what to pull out of the matched nodes.
type Mode string

const (
	// Text joins each node's descendant text content with newlines.
	// Whitespace is not normalized here; that is a pipeline step.
	Text Mode = "text"
	// HTML joins each node's inner markup with newlines.
	HTML Mode = "html"
	// Attribute collects a named attribute per node. The result is a
	// scalar string for exactly one match and an ordered []string
	// otherwise; downstream steps must handle both shapes.
	Attribute Mode = "attribute"
)

// Extract converts nodes into a raw value. An empty node list yields
// nil regardless of mode. An unsupported mode, or attribute mode
// without an attribute name, is caller misuse and returns an error.
func Extract(nodes []*html.Node, mode Mode, attrName string) (any, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	switch mode {
	case Text:
		parts := make([]string, len(nodes))
		for i, n := range nodes {
			parts[i] = document.Text(n)
		}
		return strings.Join(parts, "\n"), nil

	case HTML:
		parts := make([]string, len(nodes))
		for i, n := range nodes {
			parts[i] = document.InnerHTML(n)
		}
		return strings.Join(parts, "\n"), nil

	case Attribute:
		if attrName == "" {
			return nil, fmt.Errorf("attribute extraction requires an attribute name")
		}
		values := make([]string, len(nodes))
		for i, n := range nodes {
			values[i] = document.Attr(n, attrName)
		}
		if len(values) == 1 {
			return values[0], nil
		}
		return values, nil

	default:
		return nil, fmt.Errorf("unsupported extraction mode %q", mode)
	}
}
