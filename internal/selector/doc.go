// Package selector resolves dual CSS/XPath selector specs against one
// or more base nodes.
//
// When a single node is expected, an exact single-match strategy wins
// (CSS checked first), then the resolver falls back to whichever
// strategy returned anything, preferring the smaller set with CSS
// winning ties. When many nodes are expected both strategies run and
// their matches are unioned with identity de-duplication.
//
// Malformed selectors and expressions never surface as errors; they
// simply contribute zero matches.
package selector
