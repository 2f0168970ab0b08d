package domain

import "strings"

type TypeFilter string

const (
	TypeFilterAny  TypeFilter = "any"
	TypeFilterFree TypeFilter = "free"
	TypeFilterPaid TypeFilter = "paid"
)

// Criteria is a structured filter request against the catalog.
// Zero values mean "no constraint" for every field.
type Criteria struct {
	// Text matches name, category or city as a case-insensitive substring.
	Text string
	// Type restricts to free (price == 0) or paid (price > 0) events.
	Type TypeFilter
	// City and Category are exact matches; empty means any.
	City     string
	Category string
	// MinPrice/MaxPrice are inclusive range endpoints; nil means open.
	MinPrice *float64
	MaxPrice *float64
}

// Matches reports whether the event satisfies every set constraint.
// An inverted price range (min > max) matches nothing.
func (c Criteria) Matches(e Event) bool {
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return false
	}
	if c.Text != "" {
		needle := strings.ToLower(c.Text)
		if !strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Category), needle) &&
			!strings.Contains(strings.ToLower(e.City), needle) {
			return false
		}
	}
	switch c.Type {
	case TypeFilterFree:
		if e.Price != 0 {
			return false
		}
	case TypeFilterPaid:
		if e.Price <= 0 {
			return false
		}
	}
	if c.City != "" && !strings.EqualFold(e.City, c.City) {
		return false
	}
	if c.Category != "" && !strings.EqualFold(e.Category, c.Category) {
		return false
	}
	if c.MinPrice != nil && e.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && e.Price > *c.MaxPrice {
		return false
	}
	return true
}

// ParseTypeFilter maps a query parameter onto a TypeFilter.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return TypeFilterAny, nil
	case "free":
		return TypeFilterFree, nil
	case "paid":
		return TypeFilterPaid, nil
	default:
		return "", ErrInvalidEventType
	}
}
