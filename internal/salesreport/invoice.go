package salesreport

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/document"
)

// InvoiceLayout leaves room under the content area for the footer lines.
var InvoiceLayout = document.Layout{
	Width:   210,
	Height:  297,
	Margins: document.Margins{Top: 30, Bottom: 40, Left: 20, Right: 20},
}

const (
	invoiceRowHeight    = 15.0
	invoiceTotalsHeight = 50.0
	invoiceTableTop     = 140.0
)

// Invoice lays out a single-order invoice. Item rows flow onto new pages
// only when they overflow.
func (b *Builder) Invoice(sale *backend.Sale) *document.Document {
	doc := document.New(InvoiceLayout)
	layout := doc.Layout()

	doc.SetFont(20, document.Bold)
	doc.Centered(b.branding.CompanyName)
	doc.MoveTo(40)
	doc.SetFont(12, document.Normal)
	doc.Centered(b.branding.ContactLine)
	doc.RuleAt(50)

	doc.SetFont(16, document.Bold)
	doc.TextAt(20, 70, "INVOICE")

	doc.SetFont(12, document.Normal)
	doc.TextAt(20, 85, "Invoice No: "+sale.InvoiceNumber)
	doc.TextAt(20, 95, "Date: "+sale.CreatedAt.In(b.loc).Format("02 Jan 2006"))
	doc.TextAt(20, 105, "Customer: "+sale.CustomerName)
	doc.TextAt(20, 115, "Contact: "+sale.CustomerContact)

	billX := layout.Width - 100
	doc.TextAt(billX, 85, "Bill To:")
	doc.TextAt(billX, 95, sale.CustomerName)
	doc.TextAt(billX, 105, sale.CustomerContact)

	doc.RuleAt(invoiceTableTop - 5)
	doc.MoveTo(invoiceTableTop)
	doc.SetFont(12, document.Bold)
	doc.Text(25, "Item")
	doc.Text(100, "Qty")
	doc.Text(130, "Rate")
	doc.Text(160, "Amount")
	doc.RuleAt(invoiceTableTop + 5)
	doc.Advance(20)

	doc.SetFont(12, document.Normal)
	for i, item := range sale.Items {
		name := item.ProductName
		if name == "" {
			name = "Item " + strconv.Itoa(i+1)
		}
		amount := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		doc.Row(invoiceRowHeight,
			document.Cell{X: 25, Text: name},
			document.Cell{X: 100, Text: strconv.Itoa(item.Quantity)},
			document.Cell{X: 130, Text: b.money.Format(item.UnitPrice)},
			document.Cell{X: 160, Text: b.money.Format(amount)},
		)
	}

	doc.EnsureSpace(invoiceTotalsHeight)
	top := doc.Cursor().Y + 10
	doc.RuleAt(top)
	doc.TextAt(130, top+10, "Subtotal:")
	doc.TextAt(160, top+10, b.money.Format(sale.TotalAmount))
	doc.TextAt(130, top+25, "Discount:")
	doc.TextAt(160, top+25, "-"+b.money.Format(sale.DiscountAmount))
	doc.SetFont(12, document.Bold)
	doc.TextAt(130, top+40, "Total:")
	doc.TextAt(160, top+40, b.money.Format(sale.NetAmount))
	doc.MoveTo(top + 40)

	doc.SetStyle(document.Style{Size: 10, Weight: document.Italic})
	doc.CenteredAt(layout.Height-30, b.branding.ThankYou)
	if b.branding.CreditLine != "" {
		doc.CenteredAt(layout.Height-20, b.branding.CreditLine)
	}
	return doc
}

// InvoiceFileName is Invoice_<invoice>_<YYYY-MM-DD>.pdf for the given day.
func InvoiceFileName(invoiceNumber string, day string) string {
	return fmt.Sprintf("Invoice_%s_%s.pdf", invoiceNumber, day)
}

// ReportFileName is Comprehensive_Sales_Report_<start>_to_<end>.<ext>.
func ReportFileName(p Period, ext string) string {
	return fmt.Sprintf("Comprehensive_Sales_Report_%s_to_%s.%s", p.StartLabel(), p.EndLabel(), ext)
}
