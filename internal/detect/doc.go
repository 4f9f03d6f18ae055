// Package detect discovers repeating structural patterns in a parsed
// HTML document: list rows, product cards, search results and similar
// same-shaped sibling groups with no known schema.
//
// Every element is treated as a potential container. Its direct
// children are grouped by structural signature (tag + sorted classes +
// attribute-presence markers), groups below the repeat or complexity
// thresholds are dropped, and the survivors are scored by
// count * log2(avg subtree size) and ranked document-wide.
//
// Detection is pure and deterministic for a fixed tree and options.
// Candidates address their container by positional path, so members
// can be re-resolved after the document has been re-parsed.
package detect
