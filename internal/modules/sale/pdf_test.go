package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSale() *Sale {
	return &Sale{
		ID:            uuid.New(),
		InvoiceNumber: "202506150001",
		CustomerID:    uuid.New(),
		Items: []SaleItem{
			{
				ProductID:   uuid.New(),
				ProductName: "Carbon Leg",
				ModelNumber: "CL-200",
				Quantity:    2,
				Price:       decimal.NewFromInt(100),
				Total:       decimal.NewFromInt(200),
			},
		},
		Subtotal:       decimal.NewFromInt(200),
		TaxRate:        decimal.NewFromFloat(0.18),
		TaxAmount:      decimal.NewFromInt(36),
		DiscountRate:   decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.NewFromInt(236),
		PaymentMethod:  PaymentCash,
		PaymentStatus:  StatusPaid,
		Notes:          "Fitting scheduled for next week",
		CreatedAt:      time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		Customer: &CustomerInfo{
			ID:    uuid.New(),
			Name:  "Jordan Blake",
			Phone: "555-0100",
		},
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	pdf, err := RenderInvoicePDF(sampleSale())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderInvoicePDFWithDiscount(t *testing.T) {
	s := sampleSale()
	s.DiscountRate = decimal.NewFromFloat(0.05)
	s.DiscountAmount = decimal.NewFromInt(10)
	s.Total = decimal.NewFromInt(226)

	pdf, err := RenderInvoicePDF(s)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
