package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/counter-panel/internal/shared/ident"
)

var (
	ErrEmptyName    = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be greater than zero")
)

// ImagePayload is an encoded image (typically a data URL). It is opaque to the
// catalog and may be empty.
type ImagePayload string

// Product is a catalog entry.
type Product struct {
	ID        ident.ID
	Name      string
	Price     decimal.Decimal
	Category  Category
	Available bool
	Image     ImagePayload
}

// Draft is a product that has not been accepted by the remote store yet.
type Draft struct {
	Name     string
	Price    decimal.Decimal
	Category Category
	Image    ImagePayload
}

// Validate checks the rules the remote store enforces on a draft.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !d.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Matches reports whether p is selected by the filter c.
func (p Product) Matches(c Category) bool {
	return c.IsAll() || p.Category == c
}

// Filter returns the products selected by c, in their original order. The
// input slice is never modified.
func Filter(products []Product, c Category) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Matches(c) {
			out = append(out, p)
		}
	}
	return out
}
