// Package preview prepares extracted markup for display: compacting,
// sanitizing, lazy-media normalization, and minimal page wrapping.
package preview

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizer keeps class and data-* attributes: samples exist to show
// the structural hooks a selector would target.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowDataAttributes()
	return p
}()

// Sanitize strips scripts, event handlers and other unsafe markup from
// an HTML fragment before it is shown or stored as a sample.
func Sanitize(htmlStr string) string {
	return sanitizer.Sanitize(htmlStr)
}

// CompactHTML removes trailing whitespace per line and either drops
// every blank line or squashes runs of blank lines to one.
func CompactHTML(text string, dropAllBlankLines bool) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	if dropAllBlankLines {
		for _, ln := range lines {
			if strings.TrimSpace(ln) != "" {
				out = append(out, strings.TrimRight(ln, " \t"))
			}
		}
	} else {
		blank := false
		for _, ln := range lines {
			if strings.TrimSpace(ln) == "" {
				if !blank {
					out = append(out, "")
				}
				blank = true
			} else {
				out = append(out, strings.TrimRight(ln, " \t"))
				blank = false
			}
		}
	}
	return strings.Join(out, "\n")
}

// lazySrcAttrs are the common deferred-src attribute names, in
// preference order.
var lazySrcAttrs = []string{"data-src", "data-original", "data-lazy", "data-url", "data-img"}

// NormalizeLazyMedia promotes lazy-loading attributes (data-src,
// data-srcset, data-bg and friends) to their live counterparts so a
// static preview renders images without the site's scripts.
func NormalizeLazyMedia(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if _, ok := img.Attr("src"); !ok {
			for _, a := range lazySrcAttrs {
				if val, ok := img.Attr(a); ok && val != "" {
					img.SetAttr("src", val)
					break
				}
			}
		}
		if _, ok := img.Attr("srcset"); !ok {
			if ds, ok := img.Attr("data-srcset"); ok && ds != "" {
				img.SetAttr("srcset", ds)
			}
		}
	})

	doc.Find("picture source").Each(func(_ int, src *goquery.Selection) {
		if _, ok := src.Attr("srcset"); !ok {
			if ds, ok := src.Attr("data-srcset"); ok && ds != "" {
				src.SetAttr("srcset", ds)
			}
		}
	})

	doc.Find("link[rel='stylesheet']").Each(func(_ int, ln *goquery.Selection) {
		if _, ok := ln.Attr("href"); ok {
			return
		}
		if dh, ok := ln.Attr("data-href"); ok && dh != "" {
			ln.SetAttr("href", dh)
		} else if du, ok := ln.Attr("data-url"); ok && du != "" {
			ln.SetAttr("href", du)
		}
	})

	doc.Find("[data-bg], [data-background], [data-bg-src]").Each(func(_ int, node *goquery.Selection) {
		bg := node.AttrOr("data-bg", node.AttrOr("data-background", node.AttrOr("data-bg-src", "")))
		if bg == "" {
			return
		}
		style := node.AttrOr("style", "")
		if strings.Contains(style, "background-image") {
			return
		}
		if style != "" && !strings.HasSuffix(strings.TrimSpace(style), ";") {
			style += "; "
		}
		node.SetAttr("style", style+fmt.Sprintf("background-image:url('%s')", bg))
	})
}

// BuildMinimalDoc wraps a fragment in a bare standalone page for
// rendering a single match outside its original document.
func BuildMinimalDoc(innerHTML string) string {
	return `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<style>
html, body { margin:0; padding:16px; font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; }
img { max-width:100%; height:auto; display:block; }
</style>
</head>
<body>
<div class="container">` + innerHTML + `</div>
</body>
</html>`
}
