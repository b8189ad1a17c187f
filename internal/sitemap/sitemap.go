// Package sitemap fetches sitemap XML documents and walks sitemap-index
// trees into a flat, domain-filtered list of page URLs.
package sitemap

import (
	"encoding/xml"
	"strings"
)

// Namespace is the sitemaps.org schema URI every conforming document uses.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Kind classifies a sitemap document by its root element.
type Kind int

// Document kinds.
const (
	KindUnknown Kind = iota
	KindIndex        // <sitemapindex>: references other sitemaps
	KindURLSet       // <urlset>: lists page URLs directly
)

// Entry is a <sitemap> or <url> child element.
type Entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Document is a parsed sitemap. The same struct covers both index and
// urlset documents; Kind() tells them apart by root element.
type Document struct {
	XMLName  xml.Name
	Sitemaps []Entry `xml:"sitemap"`
	URLs     []Entry `xml:"url"`
}

// Kind reports whether the document is a sitemap index, a urlset, or
// something else. Root elements outside the sitemaps.org namespace are
// treated as unknown (and walked as an empty urlset).
func (d *Document) Kind() Kind {
	if d.XMLName.Space != Namespace {
		return KindUnknown
	}
	switch d.XMLName.Local {
	case "sitemapindex":
		return KindIndex
	case "urlset":
		return KindURLSet
	default:
		return KindUnknown
	}
}

// Parse unmarshals a sitemap document body. Real-world sitemaps wrap <loc>
// values in whitespace and newlines, so entries are trimmed.
func Parse(body []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Sitemaps {
		doc.Sitemaps[i].Loc = strings.TrimSpace(doc.Sitemaps[i].Loc)
	}
	for i := range doc.URLs {
		doc.URLs[i].Loc = strings.TrimSpace(doc.URLs[i].Loc)
	}
	return &doc, nil
}
