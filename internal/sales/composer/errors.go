package composer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrIncompleteOrder is returned when a draft has no lines at all.
	ErrIncompleteOrder = errors.New("order has no items")
	// ErrMissingProductReference is returned when a line has no product selected.
	ErrMissingProductReference = errors.New("order item without product")
	// ErrLineOutOfRange is returned for mutations addressing a missing line.
	ErrLineOutOfRange = errors.New("line index out of range")
	// ErrInvalidOrder is returned when the wire request fails field validation.
	ErrInvalidOrder = errors.New("order failed validation")
)

// MissingProductError lists every line (zero based) without a product.
type MissingProductError struct {
	Lines []int
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("%d order item(s) without product", len(e.Lines))
}

// Unwrap exposes ErrMissingProductReference to errors.Is.
func (e *MissingProductError) Unwrap() error {
	return ErrMissingProductReference
}

// LineNumbers renders the affected lines one based, e.g. "2, 3".
func (e *MissingProductError) LineNumbers() string {
	parts := make([]string, 0, len(e.Lines))
	for _, idx := range e.Lines {
		parts = append(parts, strconv.Itoa(idx+1))
	}
	return strings.Join(parts, ", ")
}

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order failed validation: %s", strings.Join(e.FieldNames(), ", "))
}

// Unwrap exposes ErrInvalidOrder to errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidOrder
}

// FieldNames returns the offending fields in stable order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
