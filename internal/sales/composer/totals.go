package composer

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals is a snapshot of the derived order amounts.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	NetTotal       decimal.Decimal
}

// Total returns unit price times quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineTotal returns the total of the line at index.
func (d *Draft) LineTotal(index int) (decimal.Decimal, error) {
	if err := d.checkIndex(index); err != nil {
		return decimal.Zero, err
	}
	return d.Items[index].Total(), nil
}

// Subtotal sums every line total.
func (d *Draft) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// DiscountAmount is subtotal × discount / 100; an absent discount counts as 0.
func (d *Draft) DiscountAmount() decimal.Decimal {
	if d.DiscountPercentage == nil {
		return decimal.Zero
	}
	return d.Subtotal().Mul(*d.DiscountPercentage).Div(hundred)
}

// NetTotal is subtotal minus discount amount.
func (d *Draft) NetTotal() decimal.Decimal {
	return d.Subtotal().Sub(d.DiscountAmount())
}

// Totals recomputes all derived amounts from the current lines.
func (d *Draft) Totals() Totals {
	subtotal := d.Subtotal()
	discount := d.DiscountAmount()
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		NetTotal:       subtotal.Sub(discount),
	}
}
