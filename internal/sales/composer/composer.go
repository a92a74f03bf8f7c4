// Package composer holds the sales order line-item composer: an ordered list
// of lines with totals derived on every read, plus the checks and mapping
// applied before an order is sent to the backend.
package composer

import (
	"github.com/shopspring/decimal"
)

// DefaultDiscountPercentage applies to new drafts and to requests whose
// discount is missing.
var DefaultDiscountPercentage = decimal.NewFromInt(5)

// ProductRef is the catalog product a line points at.
type ProductRef struct {
	ID    int64
	Name  string
	Code  string
	Price decimal.Decimal
}

// LineItem is one row of the order form.
type LineItem struct {
	Product   *ProductRef
	Quantity  int
	UnitPrice decimal.Decimal
}

// Draft is an order being composed. It always keeps at least one line while
// it is edited through its methods.
type Draft struct {
	CustomerName       string
	CustomerContact    string
	DiscountPercentage *decimal.Decimal
	Items              []LineItem
}

// NewLine returns a blank line: no product, quantity 1, price 0.
func NewLine() LineItem {
	return LineItem{Quantity: 1, UnitPrice: decimal.Zero}
}

// NewDraft returns an empty draft with the default discount and one blank line.
func NewDraft() Draft {
	discount := DefaultDiscountPercentage
	return Draft{
		DiscountPercentage: &discount,
		Items:              []LineItem{NewLine()},
	}
}

// Len reports the number of lines.
func (d *Draft) Len() int {
	return len(d.Items)
}

// AddLine appends a blank line.
func (d *Draft) AddLine() {
	d.Items = append(d.Items, NewLine())
}

// RemoveLine drops the line at index. Removing the only remaining line is a
// no-op and reports false.
func (d *Draft) RemoveLine(index int) (bool, error) {
	if err := d.checkIndex(index); err != nil {
		return false, err
	}
	if len(d.Items) == 1 {
		return false, nil
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return true, nil
}

// SelectProduct points the line at product and replaces its unit price with
// the catalog price, discarding any manual edit.
func (d *Draft) SelectProduct(index int, product ProductRef) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	ref := product
	d.Items[index].Product = &ref
	d.Items[index].UnitPrice = product.Price
	return nil
}

// SetQuantity stores qty as given; range checks happen at submit time.
func (d *Draft) SetQuantity(index, qty int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.Items[index].Quantity = qty
	return nil
}

// SetUnitPrice stores price as given; range checks happen at submit time.
func (d *Draft) SetUnitPrice(index int, price decimal.Decimal) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	d.Items[index].UnitPrice = price
	return nil
}

// SetDiscount replaces the discount percentage. nil marks it as absent.
func (d *Draft) SetDiscount(pct *decimal.Decimal) {
	d.DiscountPercentage = pct
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.Items) {
		return ErrLineOutOfRange
	}
	return nil
}
