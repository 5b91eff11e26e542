// Package capture reads captured product feeds from disk. A capture
// file is a JSON snapshot of the products visible on one shopping page,
// written by the capturing front end; this package turns those files
// into domain products ready for indexing.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/domain"
)

// Snapshot is the on-disk capture file format.
type Snapshot struct {
	// Domain is the origin the products were captured from.
	Domain string `json:"domain"`

	// CapturedAt is when the capture pass ran.
	CapturedAt time.Time `json:"captured_at"`

	// Products are the captured products.
	Products []Product `json:"products"`
}

// Product is one captured product as serialised by the capture front end.
type Product struct {
	Title       string  `json:"title"`
	Brand       string  `json:"brand,omitempty"`
	Price       string  `json:"price,omitempty"`
	Description string  `json:"description,omitempty"`
	Text        string  `json:"text,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	LinkURL     string  `json:"link_url,omitempty"`
	Element     Element `json:"element,omitempty"`
}

// Element mirrors domain.ElementInfo in wire form.
type Element struct {
	TagName      string   `json:"tag_name,omitempty"`
	ClassList    []string `json:"class_list,omitempty"`
	SiblingIndex int      `json:"sibling_index,omitempty"`
}

// ReadFile parses one capture file into domain products. Products with
// neither title nor text are dropped: they cannot be indexed or shown.
func ReadFile(path string) ([]domain.RawProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Bare-array captures predate the snapshot envelope.
		var bare []Product
		if arrErr := json.Unmarshal(data, &bare); arrErr != nil {
			return nil, fmt.Errorf("parsing capture file %s: %w", filepath.Base(path), err)
		}
		snap.Products = bare
	}

	capturedAt := snap.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	products := make([]domain.RawProduct, 0, len(snap.Products))
	for _, p := range snap.Products {
		if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Text) == "" {
			continue
		}
		products = append(products, domain.RawProduct{
			Title:       p.Title,
			Brand:       p.Brand,
			Price:       p.Price,
			Description: p.Description,
			Text:        p.Text,
			ImageURL:    p.ImageURL,
			LinkURL:     p.LinkURL,
			Element: domain.ElementInfo{
				TagName:      p.Element.TagName,
				ClassList:    p.Element.ClassList,
				SiblingIndex: p.Element.SiblingIndex,
			},
			Domain:     snap.Domain,
			CapturedAt: capturedAt,
		})
	}

	return products, nil
}

// ReadDir parses every .json capture file in dir, in name order.
// Unreadable files fail the whole read so a partial index is never
// mistaken for a complete one.
func ReadDir(dir string) ([]domain.RawProduct, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading capture directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var products []domain.RawProduct
	for _, name := range names {
		batch, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}

	return products, nil
}
