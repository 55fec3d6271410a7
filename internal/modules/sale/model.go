package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod records how a sale was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentDebitCard    PaymentMethod = "Debit Card"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentOther        PaymentMethod = "Other"
)

// ValidPaymentMethod reports whether m belongs to the closed set.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus records whether a sale has been settled.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusPending PaymentStatus = "Pending"
	StatusPartial PaymentStatus = "Partial"
)

// ValidPaymentStatus reports whether s belongs to the closed set.
func ValidPaymentStatus(s PaymentStatus) bool {
	return s == StatusPaid || s == StatusPending || s == StatusPartial
}

// DefaultTaxRate applies when a sale request carries no tax rate.
var DefaultTaxRate = decimal.NewFromFloat(0.18)

// SaleItem is one product/quantity/price/total line within a sale. Price is
// snapshotted from the product at sale time and never re-read.
type SaleItem struct {
	ProductID uuid.UUID       `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`

	// Resolved on read for display and invoice rendering.
	ProductName string `json:"product_name,omitempty"`
	ModelNumber string `json:"model_number,omitempty"`
}

// CustomerInfo is the denormalized customer block attached to a resolved sale.
type CustomerInfo struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email,omitempty"`
	Address string    `json:"address,omitempty"`
}

// Sale is an immutable point-of-sale transaction record.
type Sale struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	Items          []SaleItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`

	// Resolved on read.
	Customer      *CustomerInfo `json:"customer,omitempty"`
	CreatedByName string        `json:"created_by_name,omitempty"`
}

// SaleItemInput is one requested line of a new sale.
type SaleItemInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CreateSaleRequest is the payload for creating a sale. Customer may be empty
// for walk-in sales; rates default when nil.
type CreateSaleRequest struct {
	Customer      string           `json:"customer,omitempty"`
	Items         []SaleItemInput  `json:"items"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	DiscountRate  *decimal.Decimal `json:"discount_rate,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	PaymentStatus string           `json:"payment_status,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// ListFilter is the typed allow-list of query filters for sale listing.
type ListFilter struct {
	Customer      string
	PaymentMethod string
	PaymentStatus string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	Limit         int
}

// ── reporting ─────────────────────────────────────────────────────────────────

// ReportSummary aggregates sales over a window.
type ReportSummary struct {
	TotalSales       int             `json:"total_sales"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
}

// TopProduct is a best-seller row in the report.
type TopProduct struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	ModelNumber   string          `json:"model_number"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// PaymentMethodTotal groups revenue by payment method.
type PaymentMethodTotal struct {
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// DailyTotal groups revenue by calendar day for charting.
type DailyTotal struct {
	Day   string          `json:"day"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Report is the full aggregation payload.
type Report struct {
	Summary              ReportSummary        `json:"summary"`
	TopProducts          []TopProduct         `json:"top_products"`
	SalesByPaymentMethod []PaymentMethodTotal `json:"sales_by_payment_method"`
	SalesByDay           []DailyTotal         `json:"sales_by_day"`
}
