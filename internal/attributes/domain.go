// Package attributes manages the taxonomy entries (colors, sizes,
// categories) referenced when defining products and variants.
package attributes

import (
	"github.com/stocklet/stocklet/internal/platform/httpx"
)

// Valid attribute types.
const (
	TypeColor    = "color"
	TypeSize     = "size"
	TypeCategory = "category"
)

// ValidType reports whether t is one of the three supported taxonomy types.
func ValidType(t string) bool {
	return t == TypeColor || t == TypeSize || t == TypeCategory
}

// Attribute is one taxonomy entry. (type, name) is unique.
type Attribute struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	ColorCode *string `json:"color_code"`
	Status    int16   `json:"status"`
}

// Active reports whether the attribute is selectable in new products.
func (a Attribute) Active() bool { return a.Status == 1 }

var (
	// ErrInvalidType rejects types outside color/size/category.
	ErrInvalidType = httpx.Wrap(httpx.ErrValidation, "type must be 'color', 'size' or 'category'")
	// ErrEmptyName rejects names that are empty after trimming.
	ErrEmptyName = httpx.Wrap(httpx.ErrValidation, "name must not be empty")
	// ErrNotFound indicates the attribute id does not exist.
	ErrNotFound = httpx.Wrap(httpx.ErrNotFound, "attribute not found")
	// ErrDuplicate indicates (type, name) already exists.
	ErrDuplicate = httpx.Wrap(httpx.ErrDuplicate, "attribute already exists for this type")
)

// StatusFromToken normalizes the loosely typed status field accepted on the
// wire. The literals 0, "0", false and "false" deactivate; anything else,
// including absence (nil), activates.
func StatusFromToken(raw any) int16 {
	switch v := raw.(type) {
	case bool:
		if !v {
			return 0
		}
	case string:
		if v == "0" || v == "false" {
			return 0
		}
	case float64:
		if v == 0 {
			return 0
		}
	case int:
		if v == 0 {
			return 0
		}
	}
	return 1
}
