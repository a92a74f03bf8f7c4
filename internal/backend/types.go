package backend

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as listed by GET /api/products/.
type Product struct {
	ID           int64               `json:"id"`
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	Price        decimal.NullDecimal `json:"price"`
	SellPrice    decimal.NullDecimal `json:"sell_price"`
	Quantity     int                 `json:"quantity"`
	Status       string              `json:"status"`
	CategoryName string              `json:"category_name"`
	SupplierName string              `json:"supplier_name"`
}

// CatalogPrice is the price pre-filled on an order line: price, falling back
// to sell_price when price is absent or null. An explicit zero price is kept.
func (p Product) CatalogPrice() decimal.Decimal {
	if p.Price.Valid {
		return p.Price.Decimal
	}
	if p.SellPrice.Valid {
		return p.SellPrice.Decimal
	}
	return decimal.Zero
}

// SaleSummary is one row of GET /api/sales/.
type SaleSummary struct {
	ID              int64           `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	ItemsCount      int             `json:"items_count"`
	CreatedByName   string          `json:"created_by_name"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Sale is a full order record with its lines.
type Sale struct {
	ID                 int64           `json:"id"`
	InvoiceNumber      string          `json:"invoice_number"`
	CustomerName       string          `json:"customer_name"`
	CustomerContact    string          `json:"customer_contact"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	CreatedByName      string          `json:"created_by_name"`
	CreatedAt          time.Time       `json:"created_at"`
	Items              []SaleItem      `json:"items"`
}

// SaleItem is one line of a Sale.
type SaleItem struct {
	ID          int64           `json:"id"`
	Product     int64           `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// ReportPayload is the pre-aggregated body of GET /api/sales/report/.
type ReportPayload struct {
	Summary             *ReportSummary        `json:"summary"`
	DailyData           []DailyBucket         `json:"daily_data"`
	ProductPerformance  []ProductPerformance  `json:"product_performance"`
	CategoryPerformance []CategoryPerformance `json:"category_performance"`
	EmployeePerformance []EmployeePerformance `json:"employee_performance"`
	DetailedSales       []DetailedSale        `json:"detailed_sales"`
}

// ReportSummary holds the period totals.
type ReportSummary struct {
	TotalSales                int             `json:"total_sales"`
	TotalRevenue              decimal.Decimal `json:"total_revenue"`
	TotalDiscount             decimal.Decimal `json:"total_discount"`
	TotalBeforeDiscount       decimal.Decimal `json:"total_before_discount"`
	TotalProfit               decimal.Decimal `json:"total_profit"`
	TotalCost                 decimal.Decimal `json:"total_cost"`
	ProfitMargin              decimal.Decimal `json:"profit_margin"`
	AverageSaleValue          decimal.Decimal `json:"average_sale_value"`
	AverageDiscountPercentage decimal.Decimal `json:"average_discount_percentage"`
}

// DailyBucket aggregates the sales of one calendar day.
type DailyBucket struct {
	Date                string              `json:"created_at__date"`
	Sales               int                 `json:"daily_sales"`
	Revenue             decimal.Decimal     `json:"daily_revenue"`
	Discount            decimal.NullDecimal `json:"daily_discount"`
	TotalBeforeDiscount decimal.NullDecimal `json:"daily_total_before_discount"`
}

// ProductPerformance ranks one product by revenue.
type ProductPerformance struct {
	Name              string          `json:"product__name"`
	Code              string          `json:"product__code"`
	CategoryName      string          `json:"product__category__name"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	SalesCount        int             `json:"sales_count"`
}

// CategoryPerformance aggregates one product category.
type CategoryPerformance struct {
	Name              string          `json:"product__category__name"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

// EmployeePerformance aggregates the sales entered by one user.
type EmployeePerformance struct {
	FirstName    string          `json:"created_by__first_name"`
	LastName     string          `json:"created_by__last_name"`
	Username     string          `json:"created_by__username"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// DisplayName is "first last", or the username when both are blank.
func (e EmployeePerformance) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
	if name == "" {
		return e.Username
	}
	return name
}

// DetailedSale is one transaction of the report with its lines.
type DetailedSale struct {
	ID                 int64              `json:"id"`
	InvoiceNumber      string             `json:"invoice_number"`
	CustomerName       string             `json:"customer_name"`
	CustomerContact    string             `json:"customer_contact"`
	CreatedBy          string             `json:"created_by"`
	CreatedAt          time.Time          `json:"created_at"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	NetAmount          decimal.Decimal    `json:"net_amount"`
	Items              []DetailedSaleItem `json:"items"`
}

// DetailedSaleItem is one line of a DetailedSale.
type DetailedSaleItem struct {
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}
