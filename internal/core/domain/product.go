package domain

import (
	"fmt"
	"hash/fnv"
	"time"
)

// ElementInfo describes where a product was found in the page DOM.
// It is captured alongside the product so an external UI can map a
// match back to an on-page element. The core never interprets it.
type ElementInfo struct {
	// TagName is the element tag (e.g., "div", "article").
	TagName string

	// ClassList holds the element's CSS classes.
	ClassList []string

	// SiblingIndex is the element's position among its siblings.
	SiblingIndex int
}

// RawProduct is a product as scraped from a shopping page.
// It is immutable once captured and scoped to a single page session.
type RawProduct struct {
	// ID is the content-derived product identifier.
	// Empty until resolved by the indexing pipeline.
	ID string

	// Title is the product title as shown on the page.
	Title string

	// Brand is the product brand, if identifiable.
	Brand string

	// Price is the free-text price string (e.g., "€59,99").
	Price string

	// Description is the product description text.
	Description string

	// Text is the full text blob of the product element.
	Text string

	// ImageURL is the product image location.
	ImageURL string

	// LinkURL is the product detail page location.
	LinkURL string

	// Element holds DOM-location hints for re-identification.
	Element ElementInfo

	// Domain is the origin the product was captured from.
	Domain string

	// CapturedAt is when the capture pass saw the product.
	CapturedAt time.Time
}

// ProductID computes the stable content-derived identifier for a product.
// Identical (title, brand, price, link) content always yields the same id,
// which makes re-indexing idempotent and lets chunks group by product.
// Uses a 64-bit FNV-1a hash; collisions are improbable at page scale.
func ProductID(title, brand, price, link string) string {
	h := fnv.New64a()
	h.Write([]byte(title))
	h.Write([]byte{'|'})
	h.Write([]byte(brand))
	h.Write([]byte{'|'})
	h.Write([]byte(price))
	h.Write([]byte{'|'})
	h.Write([]byte(link))
	return fmt.Sprintf("p%016x", h.Sum64())
}

// ResolveID returns the product's id, computing it from content if unset.
func (p *RawProduct) ResolveID() string {
	if p.ID == "" {
		p.ID = ProductID(p.Title, p.Brand, p.Price, p.LinkURL)
	}
	return p.ID
}

// ProductMetadata is the persisted summary of a captured product.
// It is written once at index time and read during result hydration.
type ProductMetadata struct {
	// ProductID links to the product's chunks.
	ProductID string

	// Title is the product title.
	Title string

	// Brand is the product brand.
	Brand string

	// Price is the free-text price string.
	Price string

	// LinkURL is the product detail page location.
	LinkURL string

	// ImageURL is the product image location.
	ImageURL string

	// Element holds the stored DOM-location hints.
	Element ElementInfo

	// Domain is the origin the product was captured from.
	Domain string

	// RawText is the full text blob at capture time.
	RawText string

	// IndexedAt is when the product was indexed.
	IndexedAt time.Time
}

// ProductContext holds attributes extracted from a product's text by
// lexical vocabulary lookup. It feeds the attributes chunk and the
// fallback embedding.
type ProductContext struct {
	// ProductType is the first matching product noun, or "unknown".
	ProductType string

	// Colors are all matching colour words.
	Colors []string

	// Materials are all matching material words.
	Materials []string

	// Styles are all matching style descriptors.
	Styles []string

	// Gender is "women", "men" or "unisex".
	Gender string
}
