package domain

import (
	"errors"
	"strings"
)

// Category groups products on the counter menu.
type Category string

const (
	// CategoryAll is the filter-only pseudo-category; no product carries it.
	CategoryAll     Category = "Tutte"
	CategoryPanini  Category = "Panini"
	CategoryFritti  Category = "Fritti"
	CategoryBevande Category = "Bevande"
	CategoryMenu    Category = "Menu"
)

var ErrInvalidCategory = errors.New("product category is invalid")

// Categories lists the categories a product may belong to.
var Categories = []Category{CategoryPanini, CategoryFritti, CategoryBevande, CategoryMenu}

// FilterOptions lists every selectable filter value, "all" first.
var FilterOptions = append([]Category{CategoryAll}, Categories...)

// ParseCategory resolves a label, case-insensitively. "all" maps to CategoryAll.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "all") {
		return CategoryAll, nil
	}
	for _, c := range FilterOptions {
		if strings.EqualFold(raw, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// IsAll reports whether c is the "all" pseudo-category.
func (c Category) IsAll() bool { return c == CategoryAll }

// Valid reports whether a product may carry c.
func (c Category) Valid() bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}
