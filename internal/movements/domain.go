// Package movements maintains the append-only stock ledger. Recording a
// movement validates stock sufficiency and reconciles the variant quantity in
// the same transaction, so the ledger and the stock level never diverge.
package movements

import (
	"strings"
	"time"

	"github.com/stocklet/stocklet/internal/platform/httpx"
)

// Type enumerates the supported movement directions.
type Type string

const (
	// TypeIn is an inbound movement (restock).
	TypeIn Type = "IN"
	// TypeOut is an outbound movement (issue).
	TypeOut Type = "OUT"
)

// ParseType normalizes a wire value into a movement type. Anything outside
// IN/OUT is rejected; there is deliberately no default direction.
func ParseType(raw string) (Type, bool) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeIn:
		return TypeIn, true
	case TypeOut:
		return TypeOut, true
	}
	return "", false
}

// Movement is one immutable ledger row. ProductName and Variant are joined
// display fields, not stored columns.
type Movement struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	VariantID   int64     `json:"variant_id"`
	Type        Type      `json:"type"`
	Quantity    int64     `json:"quantity"`
	User        *string   `json:"user"`
	Time        time.Time `json:"time"`
	Note        *string   `json:"note"`
	ProductName *string   `json:"productName"`
	Variant     string    `json:"variant"`
}

// RecordInput is a validated movement request.
type RecordInput struct {
	VariantID int64
	Type      string
	Quantity  int64
	User      *string
	Note      *string
}

// VariantStock is the row read under lock before applying a movement.
type VariantStock struct {
	ID          int64
	ProductID   int64
	ProductName string
	Color       *string
	Size        *string
	Quantity    int64
}

// Label renders the "<color> / <size>" display form, omitting the separator
// when either side is absent.
func (v VariantStock) Label() string {
	parts := make([]string, 0, 2)
	if v.Color != nil && *v.Color != "" {
		parts = append(parts, *v.Color)
	}
	if v.Size != nil && *v.Size != "" {
		parts = append(parts, *v.Size)
	}
	return strings.Join(parts, " / ")
}

var (
	// ErrInvalidType rejects movement types other than IN/OUT.
	ErrInvalidType = httpx.Wrap(httpx.ErrValidation, "type must be IN or OUT")
	// ErrInvalidQuantity rejects non-positive quantities.
	ErrInvalidQuantity = httpx.Wrap(httpx.ErrValidation, "quantity must be a positive integer")
	// ErrVariantNotFound indicates the referenced variant does not exist.
	ErrVariantNotFound = httpx.Wrap(httpx.ErrNotFound, "variant not found")
	// ErrInsufficientStock rejects outbound movements exceeding current stock.
	ErrInsufficientStock = httpx.Wrap(httpx.ErrInsufficientStock, "insufficient stock for outbound movement")
)
