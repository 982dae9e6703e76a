// Package page describes a fetched reference document after markup extraction.
package page

import "strings"

// Document is what the collection layer needs from one page.
type Document struct {
	URL   string   // address the page was fetched from
	Lang  string   // value of the root lang attribute, as written
	Text  string   // visible paragraph text
	Links []string // absolute URLs of translated versions of this page
}

// HasText reports whether the document carries any non-blank text.
func (d Document) HasText() bool {
	return strings.TrimSpace(d.Text) != ""
}

// Raw is a fetched page before decoding.
type Raw struct {
	URL         string
	ContentType string // Content-Type response header, empty when the server sent none
	Body        []byte
}
