package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNotStarted      = errors.New("checkout not started")
	ErrWrongStep       = errors.New("operation not allowed at this checkout step")
	ErrNoSlot          = errors.New("no pickup slot selected")
	ErrUnknownSlot     = errors.New("unknown pickup slot")
	ErrSlotUnavailable = errors.New("selected pickup slot is no longer available")
)

// MinimumOrderError reports how far the subtotal is below the minimum order value.
type MinimumOrderError struct {
	Minimum   decimal.Decimal
	Subtotal  decimal.Decimal
	Remaining decimal.Decimal
}

func newMinimumOrderError(subtotal decimal.Decimal) *MinimumOrderError {
	return &MinimumOrderError{
		Minimum:   catalog.MinOrderValue,
		Subtotal:  subtotal,
		Remaining: catalog.MinOrderValue.Sub(subtotal),
	}
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order value is ₹%s, add %s more", e.Minimum.String(), catalog.FormatINR(e.Remaining))
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every customer field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid details: " + strings.Join(parts, ", ")
}
