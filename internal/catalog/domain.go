// Package catalog manages products and their color/size variants. A variant
// is exclusively owned by its product; a full product update replaces the
// entire variant set rather than reconciling it.
package catalog

import (
	"time"

	"github.com/stocklet/stocklet/internal/platform/httpx"
)

// Product is the catalog entry. Code is the stable externally visible
// identifier; the numeric id never leaves internal queries in URLs.
type Product struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Cost      *int64    `json:"cost"`
	Note      *string   `json:"note"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"-"`
	Variants  []Variant `json:"variants"`
}

// Variant is one concrete color/size combination carrying stock.
type Variant struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
	Quantity  int64   `json:"quantity"`
	Img       *string `json:"img"`
}

// VariantInput is the wire form of a variant inside create/update payloads.
type VariantInput struct {
	Color    *string `json:"color"`
	Size     *string `json:"size"`
	Quantity *int64  `json:"quantity"`
	Img      *string `json:"img"`
}

var (
	// ErrEmptyName rejects products without a name.
	ErrEmptyName = httpx.Wrap(httpx.ErrValidation, "product name must not be empty")
	// ErrNotFound indicates no product carries the given code.
	ErrNotFound = httpx.Wrap(httpx.ErrNotFound, "product not found")
)
