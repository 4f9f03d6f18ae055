package detect

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// keyAttrs are the attributes whose presence marks structural intent.
var keyAttrs = map[string]struct{}{
	"role":      {},
	"itemtype":  {},
	"itemscope": {},
}

// signatureOf fingerprints an element for sibling grouping: tag name,
// sorted unique class tokens, and sorted presence markers for the key
// attributes plus anything data-* or aria-*. Only attribute presence is
// recorded, never the value. The id attribute is excluded: it is
// usually unique per element and would defeat grouping.
func signatureOf(n *html.Node) string {
	tag := strings.ToLower(n.Data)
	classes := classTokens(n)

	markSet := make(map[string]struct{})
	for _, a := range n.Attr {
		name := strings.ToLower(a.Key)
		if name == "id" || name == "class" {
			continue
		}
		if _, key := keyAttrs[name]; key ||
			strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-") {
			markSet[name] = struct{}{}
		}
	}
	marks := make([]string, 0, len(markSet))
	for m := range markSet {
		marks = append(marks, m)
	}
	sort.Strings(marks)

	var sb strings.Builder
	sb.WriteString(tag)
	sb.WriteByte('|')
	sb.WriteString(strings.Join(classes, "."))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(marks, ","))
	return sb.String()
}

// classTokens returns the element's class attribute split into sorted
// unique tokens.
func classTokens(n *html.Node) []string {
	var raw string
	for _, a := range n.Attr {
		if strings.ToLower(a.Key) == "class" {
			raw = a.Val
			break
		}
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}
