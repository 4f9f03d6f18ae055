package detect

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/configsmith/engine/internal/document"
	"github.com/configsmith/engine/internal/preview"
)

// Options controls a detection pass.
type Options struct {
	// MinRepeats is the minimum sibling group size worth reporting.
	MinRepeats int
	// MinComplexity is the minimum average subtree size (descendant
	// elements + self) a group must reach; filters trivial repeats
	// like plain <li> text rows.
	MinComplexity int
	// MaxCandidates caps the ranked result list.
	MaxCandidates int

	Logger *zap.Logger
}

// DefaultOptions returns the standard detection thresholds.
func DefaultOptions() Options {
	return Options{
		MinRepeats:    2,
		MinComplexity: 5,
		MaxCandidates: 25,
	}
}

// Candidate is a detected repeating-structure hypothesis: a container
// element whose direct children share a structural signature. A
// candidate is uniquely identified by (ContainerPath, Signature).
type Candidate struct {
	Signature     string  `json:"item_signature"`
	ContainerDesc string  `json:"container_desc"`
	ContainerPath string  `json:"container_path"`
	Count         int     `json:"count"`
	Score         float64 `json:"score"`
	SampleHTML    string  `json:"sample_markup"`
}

// Detect scans the whole tree for repeating sibling groups and returns
// them ranked by score, best first. Document order breaks score ties.
// A fault while inspecting one container skips that container only;
// the scan always completes.
func Detect(root *html.Node, opts Options) []Candidate {
	if opts.MinRepeats <= 0 {
		opts.MinRepeats = 2
	}
	if opts.MinComplexity <= 0 {
		opts.MinComplexity = 1
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 25
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	type ranked struct {
		cand  Candidate
		order int
	}

	var found []ranked
	for order, container := range document.Elements(root) {
		cands := inspectContainer(container, opts, logger)
		for _, c := range cands {
			found = append(found, ranked{cand: c, order: order})
		}
	}

	// Explicit secondary key: do not lean on sort stability.
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].cand.Score != found[j].cand.Score {
			return found[i].cand.Score > found[j].cand.Score
		}
		return found[i].order < found[j].order
	})

	seen := make(map[string]struct{}, len(found))
	out := make([]Candidate, 0, opts.MaxCandidates)
	for _, r := range found {
		key := r.cand.ContainerPath + "\x00" + r.cand.Signature
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.cand)
		if len(out) == opts.MaxCandidates {
			break
		}
	}
	return out
}

// inspectContainer groups the container's direct children by signature
// and emits a candidate per group passing the thresholds. Panics from a
// malformed subtree are absorbed so the document-wide scan continues.
func inspectContainer(container *html.Node, opts Options, logger *zap.Logger) (cands []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("skipping container subtree",
				zap.String("container", describe(container)),
				zap.Any("fault", r))
			cands = nil
		}
	}()

	groups := make(map[string][]*html.Node)
	var sigOrder []string
	for _, child := range document.ChildElements(container) {
		sig := signatureOf(child)
		if _, ok := groups[sig]; !ok {
			sigOrder = append(sigOrder, sig)
		}
		groups[sig] = append(groups[sig], child)
	}

	for _, sig := range sigOrder {
		members := groups[sig]
		if len(members) < opts.MinRepeats {
			continue
		}
		total := 0
		for _, m := range members {
			total += complexity(m)
		}
		avg := float64(total) / float64(len(members))
		if avg < float64(opts.MinComplexity) {
			continue
		}
		score := float64(len(members)) * math.Log2(math.Max(avg, 2))
		cands = append(cands, Candidate{
			Signature:     sig,
			ContainerDesc: describe(container),
			ContainerPath: document.PathOf(container),
			Count:         len(members),
			Score:         score,
			SampleHTML:    sampleMarkup(members[0]),
		})
	}
	return cands
}

// Members re-locates the candidate's container in the current tree and
// returns the direct children whose freshly computed signature matches.
// It tolerates the document having been re-parsed since detection.
func Members(root *html.Node, cand Candidate) []*html.Node {
	container := document.ResolvePath(root, cand.ContainerPath)
	if container == nil {
		return nil
	}
	var members []*html.Node
	for _, child := range document.ChildElements(container) {
		if signatureOf(child) == cand.Signature {
			members = append(members, child)
		}
	}
	return members
}

// Selectors derives the document-level CSS selector and XPath
// expression matching the candidate's items, keyed on tag and classes.
func Selectors(root *html.Node, cand Candidate) (css, xpath string) {
	members := Members(root, cand)
	if len(members) == 0 {
		return "", ""
	}
	rep := members[0]
	tag := strings.ToLower(rep.Data)
	classes := classTokens(rep)

	css = tag
	if len(classes) > 0 {
		css += "." + strings.Join(classes, ".")
	}

	xpath = "//" + tag
	if len(classes) > 0 {
		conds := make([]string, len(classes))
		for i, c := range classes {
			conds[i] = fmt.Sprintf("contains(concat(' ', normalize-space(@class), ' '), ' %s ')", c)
		}
		xpath = fmt.Sprintf("//%s[%s]", tag, strings.Join(conds, " and "))
	}
	return css, xpath
}

// complexity counts n's descendant elements plus n itself.
func complexity(n *html.Node) int {
	count := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count += complexity(c)
		}
	}
	return count
}

// describe summarizes an element as tag.class1.class2 for display.
func describe(n *html.Node) string {
	desc := strings.ToLower(n.Data)
	if classes := classTokens(n); len(classes) > 0 {
		desc += "." + strings.Join(classes, ".")
	}
	return desc
}

func sampleMarkup(n *html.Node) string {
	return preview.Sanitize(preview.CompactHTML(document.OuterHTML(n), true))
}
