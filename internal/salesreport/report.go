// Package salesreport lays out the period sales report and single-order
// invoices, and exports them as PDF or spreadsheet files.
package salesreport

import (
	"fmt"
	"strconv"
	"time"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/document"
	"github.com/odyssey-erp/salesdesk/internal/money"
)

// Report section titles.
const (
	ReportTitle           = "Comprehensive Sales Report"
	SectionSummary        = "Executive Summary"
	SectionDaily          = "Daily Sales Breakdown"
	SectionTopProducts    = "Top 10 Products by Revenue"
	SectionCategories     = "Category Performance"
	SectionEmployees      = "Employee Performance"
	SectionTransactions   = "Detailed Sales Transactions"
	ReportFooter          = "End of Report"
	topProductsLimit      = 10
	productNameLimit      = 25
	sectionReserve        = 60.0
	transactionReserve    = 40.0
	tableRowHeight        = 8.0
	transactionItemHeight = 5.0
)

// Builder lays out report and invoice documents.
type Builder struct {
	money    *money.Formatter
	branding Branding
	loc      *time.Location
	now      func() time.Time
}

// NewBuilder wires the currency formatter and letterhead. loc controls how
// timestamps are printed and defaults to UTC.
func NewBuilder(formatter *money.Formatter, branding Branding, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{money: formatter, branding: branding, loc: loc, now: time.Now}
}

// Report lays out the sales report. Sections without data are omitted
// together with their heading.
func (b *Builder) Report(payload *backend.ReportPayload, period Period) *document.Document {
	doc := document.New(document.A4)
	if payload == nil {
		payload = &backend.ReportPayload{}
	}
	b.reportHeader(doc, period)
	b.summarySection(doc, payload.Summary)
	b.dailySection(doc, payload.DailyData)
	b.productSection(doc, payload.ProductPerformance)
	b.categorySection(doc, payload.CategoryPerformance)
	b.employeeSection(doc, payload.EmployeePerformance)
	b.transactionSection(doc, payload.DetailedSales)
	b.reportFooter(doc)
	return doc
}

func (b *Builder) reportHeader(doc *document.Document, period Period) {
	doc.SetFont(20, document.Bold)
	doc.Centered(ReportTitle)
	doc.Advance(10)

	doc.SetFont(12, document.Normal)
	doc.Centered(fmt.Sprintf("Period: %s to %s", period.StartLabel(), period.EndLabel()))
	doc.Advance(5)

	doc.SetFont(10, document.Normal)
	doc.Centered("Generated: " + b.now().In(b.loc).Format("2006-01-02 15:04:05"))
	doc.Advance(15)
}

func (b *Builder) summarySection(doc *document.Document, s *backend.ReportSummary) {
	if s == nil {
		return
	}
	doc.Rule()
	doc.Advance(10)
	doc.SetFont(14, document.Bold)
	doc.Text(20, SectionSummary)
	doc.Advance(10)

	doc.SetFont(11, document.Normal)
	rows := []string{
		fmt.Sprintf("Total Sales: %d transactions", s.TotalSales),
		"Total Revenue: " + b.money.Format(s.TotalRevenue),
		"Total Before Discount: " + b.money.Format(s.TotalBeforeDiscount),
		fmt.Sprintf("Total Discount: %s (%s)", b.money.Format(s.TotalDiscount), b.money.Percent(s.AverageDiscountPercentage)),
		"Average Sale Value: " + b.money.Format(s.AverageSaleValue),
	}
	for _, row := range rows {
		doc.Row(tableRowHeight, document.Cell{X: 25, Text: row})
	}
	doc.Advance(7)
}

func (b *Builder) dailySection(doc *document.Document, days []backend.DailyBucket) {
	if len(days) == 0 {
		return
	}
	sectionHeading(doc, SectionDaily)
	tableHeader(doc, 10,
		document.Cell{X: 25, Text: "Date"},
		document.Cell{X: 70, Text: "Sales"},
		document.Cell{X: 110, Text: "Revenue"},
		document.Cell{X: 150, Text: "Discount"},
	)
	for _, day := range days {
		doc.Row(tableRowHeight,
			document.Cell{X: 25, Text: day.Date},
			document.Cell{X: 70, Text: strconv.Itoa(day.Sales)},
			document.Cell{X: 110, Text: b.money.Format(day.Revenue)},
			document.Cell{X: 150, Text: b.money.FormatNull(day.Discount)},
		)
	}
	doc.Advance(10)
}

func (b *Builder) productSection(doc *document.Document, products []backend.ProductPerformance) {
	if len(products) == 0 {
		return
	}
	if len(products) > topProductsLimit {
		products = products[:topProductsLimit]
	}
	sectionHeading(doc, SectionTopProducts)
	tableHeader(doc, 9,
		document.Cell{X: 25, Text: "Rank"},
		document.Cell{X: 40, Text: "Product"},
		document.Cell{X: 100, Text: "Code"},
		document.Cell{X: 130, Text: "Qty"},
		document.Cell{X: 155, Text: "Revenue"},
	)
	for i, p := range products {
		code := p.Code
		if code == "" {
			code = "N/A"
		}
		doc.Row(tableRowHeight,
			document.Cell{X: 25, Text: strconv.Itoa(i + 1)},
			document.Cell{X: 40, Text: truncate(p.Name, productNameLimit)},
			document.Cell{X: 100, Text: code},
			document.Cell{X: 130, Text: strconv.Itoa(p.TotalQuantitySold)},
			document.Cell{X: 155, Text: b.money.Format(p.TotalRevenue)},
		)
	}
	doc.Advance(10)
}

func (b *Builder) categorySection(doc *document.Document, categories []backend.CategoryPerformance) {
	if len(categories) == 0 {
		return
	}
	sectionHeading(doc, SectionCategories)
	tableHeader(doc, 10,
		document.Cell{X: 25, Text: "Category"},
		document.Cell{X: 100, Text: "Qty Sold"},
		document.Cell{X: 140, Text: "Revenue"},
	)
	for _, c := range categories {
		name := c.Name
		if name == "" {
			name = "Uncategorized"
		}
		doc.Row(tableRowHeight,
			document.Cell{X: 25, Text: name},
			document.Cell{X: 100, Text: strconv.Itoa(c.TotalQuantitySold)},
			document.Cell{X: 140, Text: b.money.Format(c.TotalRevenue)},
		)
	}
	doc.Advance(10)
}

func (b *Builder) employeeSection(doc *document.Document, employees []backend.EmployeePerformance) {
	if len(employees) == 0 {
		return
	}
	sectionHeading(doc, SectionEmployees)
	tableHeader(doc, 10,
		document.Cell{X: 25, Text: "Employee"},
		document.Cell{X: 100, Text: "Sales Count"},
		document.Cell{X: 140, Text: "Total Revenue"},
	)
	for _, e := range employees {
		doc.Row(tableRowHeight,
			document.Cell{X: 25, Text: e.DisplayName()},
			document.Cell{X: 100, Text: strconv.Itoa(e.TotalSales)},
			document.Cell{X: 140, Text: b.money.Format(e.TotalRevenue)},
		)
	}
	doc.Advance(10)
}

func (b *Builder) transactionSection(doc *document.Document, sales []backend.DetailedSale) {
	if len(sales) == 0 {
		return
	}
	sectionHeading(doc, SectionTransactions)
	for i, sale := range sales {
		doc.EnsureSpace(transactionReserve)
		doc.SetFont(9, document.Bold)
		doc.Text(25, fmt.Sprintf("%d. Invoice: %s", i+1, sale.InvoiceNumber))
		doc.Advance(6)

		doc.SetFont(9, document.Normal)
		doc.Text(30, fmt.Sprintf("Customer: %s | Contact: %s", sale.CustomerName, sale.CustomerContact))
		doc.Advance(6)
		doc.Text(30, fmt.Sprintf("Date: %s | By: %s", sale.CreatedAt.In(b.loc).Format("2006-01-02 15:04:05"), sale.CreatedBy))
		doc.Advance(6)

		for _, item := range sale.Items {
			doc.Row(transactionItemHeight, document.Cell{X: 35, Text: fmt.Sprintf("  - %s (%s) x %d @ %s = %s",
				item.ProductName, item.ProductCode, item.Quantity,
				b.money.Format(item.UnitPrice), b.money.Format(item.TotalPrice))})
		}

		doc.EnsureSpace(transactionItemHeight)
		doc.Text(30, fmt.Sprintf("  Subtotal: %s | Discount: -%s | Net: %s",
			b.money.Format(sale.TotalAmount), b.money.Format(sale.DiscountAmount), b.money.Format(sale.NetAmount)))
		doc.Advance(10)
	}
}

// reportFooter marks the last page, below the bottom margin.
func (b *Builder) reportFooter(doc *document.Document) {
	height := doc.Layout().Height
	doc.SetStyle(document.Style{Size: 8, Weight: document.Italic})
	doc.CenteredAt(height-15, ReportFooter)
	if b.branding.CreditLine != "" {
		doc.CenteredAt(height-10, b.branding.CreditLine)
	}
}

func sectionHeading(doc *document.Document, title string) {
	doc.EnsureSpace(sectionReserve)
	doc.Rule()
	doc.Advance(10)
	doc.SetFont(14, document.Bold)
	doc.Text(20, title)
	doc.Advance(10)
}

func tableHeader(doc *document.Document, size float64, cells ...document.Cell) {
	doc.SetFont(size, document.Bold)
	for _, c := range cells {
		doc.Text(c.X, c.Text)
	}
	doc.Advance(5)
	doc.Rule()
	doc.Advance(8)
	doc.SetFont(size, document.Normal)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
