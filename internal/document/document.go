package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
	MaxHTMLSize = 10 * 1024 * 1024

	// anchorCacheSize bounds the per-document anchor cache
	anchorCacheSize = 128
)

// Document owns a parsed HTML tree and the address it came from.
// It is immutable after creation; reloading a page means building a
// new Document and discarding this one along with its anchor cache.
type Document struct {
	root    *html.Node
	url     string
	anchors *lru.Cache[string, []*html.Node]
}

// Parse reads HTML from r with automatic charset detection and wraps
// the resulting tree in a Document.
func Parse(r io.Reader, url string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxHTMLSize+1))
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("html content required")
	}
	if len(data) > MaxHTMLSize {
		return nil, fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}

	root, err := parseWithCharset(data)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return newDocument(root, url)
}

// ParseString parses an in-memory HTML string.
func ParseString(htmlStr, url string) (*Document, error) {
	return Parse(strings.NewReader(htmlStr), url)
}

// ParseFile loads and parses a local HTML file; the file path becomes
// the document's address.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

func newDocument(root *html.Node, url string) (*Document, error) {
	anchors, err := lru.New[string, []*html.Node](anchorCacheSize)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, url: url, anchors: anchors}, nil
}

// parseWithCharset detects the input charset and converts to UTF-8
// before parsing, falling back to direct parsing on detector failure.
func parseWithCharset(data []byte) (*html.Node, error) {
	detector := chardet.NewTextDetector()
	best, err := detector.DetectBest(data)
	if err != nil || best == nil {
		return html.Parse(bytes.NewReader(data))
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), strings.ToLower(best.Charset))
	if err != nil {
		return html.Parse(bytes.NewReader(data))
	}
	return html.Parse(utf8Reader)
}

// Root returns the root node of the parsed tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// URL returns the document's origin address.
func (d *Document) URL() string {
	return d.url
}

// CachedAnchor looks up a previously resolved anchor node set. The
// cache is scoped to this Document and dies with it; it must never be
// consulted for nodes of another tree.
func (d *Document) CachedAnchor(key string) ([]*html.Node, bool) {
	return d.anchors.Get(key)
}

// StoreAnchor records a resolved anchor node set under key.
func (d *Document) StoreAnchor(key string, nodes []*html.Node) {
	d.anchors.Add(key, nodes)
}
