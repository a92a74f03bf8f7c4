package sales

import (
	"time"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// DraftView is the JSON shape of a draft; totals are recomputed per response.
type DraftView struct {
	ID                 string     `json:"id"`
	CustomerName       string     `json:"customer_name"`
	CustomerContact    string     `json:"customer_contact"`
	DiscountPercentage *string    `json:"discount_percentage"`
	Items              []LineView `json:"items"`
	Subtotal           string     `json:"subtotal"`
	DiscountAmount     string     `json:"discount_amount"`
	NetTotal           string     `json:"net_total"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// LineView is one line of a DraftView.
type LineView struct {
	Index       int    `json:"index"`
	ProductID   *int64 `json:"product"`
	ProductName string `json:"product_name,omitempty"`
	ProductCode string `json:"product_code,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Total       string `json:"total"`
}

// NewDraftView renders a stored draft.
func NewDraftView(stored StoredDraft) DraftView {
	d := stored.Draft
	totals := d.Totals()
	view := DraftView{
		ID:              stored.ID,
		CustomerName:    d.CustomerName,
		CustomerContact: d.CustomerContact,
		Items:           make([]LineView, 0, len(d.Items)),
		Subtotal:        totals.Subtotal.StringFixed(2),
		DiscountAmount:  totals.DiscountAmount.StringFixed(2),
		NetTotal:        totals.NetTotal.StringFixed(2),
		UpdatedAt:       stored.UpdatedAt,
	}
	if d.DiscountPercentage != nil {
		pct := d.DiscountPercentage.String()
		view.DiscountPercentage = &pct
	}
	for i, item := range d.Items {
		line := LineView{
			Index:     i,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.Total().StringFixed(2),
		}
		if item.Product != nil {
			id := item.Product.ID
			line.ProductID = &id
			line.ProductName = item.Product.Name
			line.ProductCode = item.Product.Code
		}
		view.Items = append(view.Items, line)
	}
	return view
}

type draftResponse struct {
	Draft   DraftView       `json:"draft"`
	Notices []shared.Notice `json:"notices,omitempty"`
}

type submitResponse struct {
	Sale    *backend.Sale         `json:"sale,omitempty"`
	Orders  []backend.SaleSummary `json:"orders,omitempty"`
	Draft   *DraftView            `json:"draft,omitempty"`
	Notices []shared.Notice       `json:"notices"`
}

