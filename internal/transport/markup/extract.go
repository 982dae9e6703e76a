// Package markup pulls the language, paragraph text and interlanguage links out of an HTML page.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/page"
)

// DefaultLinksID is the id of the element listing translated versions of a page.
const DefaultLinksID = "p-lang"

// Extractor parses reference pages.
type Extractor struct {
	linksID string
}

// New creates an extractor. An empty linksID means DefaultLinksID.
func New(linksID string) *Extractor {
	if linksID == "" {
		linksID = DefaultLinksID
	}
	return &Extractor{linksID: linksID}
}

// Extract parses a fetched page.
//
// The body is decoded to UTF-8 first. A charset in ContentType wins. Otherwise a
// body that is valid UTF-8 is read as such, and anything else is decoded per its
// BOM or <meta> declaration, falling back to windows-1252.
//
// Text is the concatenation of the direct text children of every <p>, joined by a
// single space; text inside nested inline elements is not included. Links are the
// hrefs of the anchors under the element whose id is linksID, resolved against
// pageURL, without fragments, de-duplicated in document order.
func (e *Extractor) Extract(raw page.Raw) (page.Document, error) {
	pageURL := raw.URL
	base, err := url.Parse(pageURL)
	if err != nil {
		return page.Document{}, fmt.Errorf("page url %q: %w: %w", pageURL, domain.ErrMarkup, err)
	}

	root, err := html.Parse(decode(raw.Body, raw.ContentType))
	if err != nil {
		return page.Document{}, fmt.Errorf("parse %s: %w: %w", pageURL, domain.ErrMarkup, err)
	}

	htmlNode := findFirst(root, func(n *html.Node) bool { return n.DataAtom == atom.Html })
	if htmlNode == nil {
		return page.Document{}, fmt.Errorf("%s has no <html> element: %w", pageURL, domain.ErrMarkup)
	}

	doc := page.Document{
		URL:  pageURL,
		Lang: strings.TrimSpace(attr(htmlNode, "lang")),
	}

	var parts []string
	walk(htmlNode, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					parts = append(parts, c.Data)
				}
			}
		}
		return true
	})
	doc.Text = strings.Join(parts, " ")

	if list := findFirst(htmlNode, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == e.linksID
	}); list != nil {
		doc.Links = collectLinks(list, base)
	}

	if !doc.HasText() {
		return doc, fmt.Errorf("%s: %w", pageURL, domain.ErrNoText)
	}
	return doc, nil
}

// decode returns a UTF-8 reader over body.
func decode(body []byte, contentType string) io.Reader {
	enc, _, certain := charset.DetermineEncoding(body, contentType)
	// Without a header charset the guess rests on the first 1024 bytes, which
	// defaults an ASCII prefix to windows-1252. Legacy single-byte text with
	// non-ASCII letters is almost never valid UTF-8.
	if !certain && utf8.Valid(body) {
		return bytes.NewReader(body)
	}
	return transform.NewReader(bytes.NewReader(body), enc.NewDecoder())
}

func collectLinks(list *html.Node, base *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})
	walk(list, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return true
		}
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" {
			return false
		}
		ref, err := url.Parse(href)
		if err != nil {
			return false
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return false
		}
		abs.Fragment = ""
		s := abs.String()
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			links = append(links, s)
		}
		return false
	})
	return links
}

// walk visits n and its descendants depth-first. fn returning false skips the children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
