package salesreport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/odyssey-erp/salesdesk/internal/backend"
)

// Workbook sheet names.
const (
	SheetSummary      = "Summary"
	SheetDaily        = "Daily"
	SheetProducts     = "Top Products"
	SheetCategories   = "Categories"
	SheetEmployees    = "Employees"
	SheetTransactions = "Transactions"
)

// Workbook renders the report payload as an xlsx file, one sheet per
// non-empty section. Amounts are written as numbers.
func (b *Builder) Workbook(payload *backend.ReportPayload, period Period) ([]byte, error) {
	if payload == nil {
		payload = &backend.ReportPayload{}
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	w := &sheetWriter{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	w.rows(SheetSummary, []string{ReportTitle, ""}, [][]any{
		{"Period", fmt.Sprintf("%s to %s", period.StartLabel(), period.EndLabel())},
	})
	if s := payload.Summary; s != nil {
		w.append(SheetSummary, [][]any{
			{"Total Sales", s.TotalSales},
			{"Total Revenue", s.TotalRevenue.InexactFloat64()},
			{"Total Before Discount", s.TotalBeforeDiscount.InexactFloat64()},
			{"Total Discount", s.TotalDiscount.InexactFloat64()},
			{"Average Discount %", s.AverageDiscountPercentage.InexactFloat64()},
			{"Average Sale Value", s.AverageSaleValue.InexactFloat64()},
			{"Total Profit", s.TotalProfit.InexactFloat64()},
			{"Profit Margin %", s.ProfitMargin.InexactFloat64()},
		})
	}

	if len(payload.DailyData) > 0 {
		rows := make([][]any, 0, len(payload.DailyData))
		for _, d := range payload.DailyData {
			discount := 0.0
			if d.Discount.Valid {
				discount = d.Discount.Decimal.InexactFloat64()
			}
			rows = append(rows, []any{d.Date, d.Sales, d.Revenue.InexactFloat64(), discount})
		}
		w.sheet(SheetDaily, []string{"Date", "Sales", "Revenue", "Discount"}, rows)
	}

	if len(payload.ProductPerformance) > 0 {
		products := payload.ProductPerformance
		if len(products) > topProductsLimit {
			products = products[:topProductsLimit]
		}
		rows := make([][]any, 0, len(products))
		for i, p := range products {
			code := p.Code
			if code == "" {
				code = "N/A"
			}
			rows = append(rows, []any{i + 1, p.Name, code, p.TotalQuantitySold, p.TotalRevenue.InexactFloat64()})
		}
		w.sheet(SheetProducts, []string{"Rank", "Product", "Code", "Qty", "Revenue"}, rows)
	}

	if len(payload.CategoryPerformance) > 0 {
		rows := make([][]any, 0, len(payload.CategoryPerformance))
		for _, c := range payload.CategoryPerformance {
			name := c.Name
			if name == "" {
				name = "Uncategorized"
			}
			rows = append(rows, []any{name, c.TotalQuantitySold, c.TotalRevenue.InexactFloat64()})
		}
		w.sheet(SheetCategories, []string{"Category", "Qty Sold", "Revenue"}, rows)
	}

	if len(payload.EmployeePerformance) > 0 {
		rows := make([][]any, 0, len(payload.EmployeePerformance))
		for _, e := range payload.EmployeePerformance {
			rows = append(rows, []any{e.DisplayName(), e.TotalSales, e.TotalRevenue.InexactFloat64()})
		}
		w.sheet(SheetEmployees, []string{"Employee", "Sales Count", "Total Revenue"}, rows)
	}

	if len(payload.DetailedSales) > 0 {
		var rows [][]any
		for _, s := range payload.DetailedSales {
			for _, item := range s.Items {
				rows = append(rows, []any{
					s.InvoiceNumber, s.CreatedAt.In(b.loc).Format("2006-01-02 15:04:05"), s.CustomerName, s.CustomerContact, s.CreatedBy,
					item.ProductName, item.ProductCode, item.Quantity, item.UnitPrice.InexactFloat64(), item.TotalPrice.InexactFloat64(),
					s.NetAmount.InexactFloat64(),
				})
			}
		}
		w.sheet(SheetTransactions, []string{
			"Invoice", "Date", "Customer", "Contact", "By",
			"Product", "Code", "Qty", "Unit Price", "Line Total", "Sale Net",
		}, rows)
	}

	if w.err != nil {
		return nil, fmt.Errorf("salesreport: workbook: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("salesreport: workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the caller checks once.
type sheetWriter struct {
	f      *excelize.File
	header int
	next   map[string]int
	err    error
}

func (w *sheetWriter) sheet(name string, header []string, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	w.rows(name, header, rows)
}

func (w *sheetWriter) rows(name string, header []string, rows [][]any) {
	if w.err != nil {
		return
	}
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &values); err != nil {
		w.err = err
		return
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(name, "A1", last, w.header); err != nil {
		w.err = err
		return
	}
	if w.next == nil {
		w.next = map[string]int{}
	}
	w.next[name] = 2
	w.append(name, rows)
}

func (w *sheetWriter) append(name string, rows [][]any) {
	for _, row := range rows {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, w.next[name])
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = err
			return
		}
		w.next[name]++
	}
}
