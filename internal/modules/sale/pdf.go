package sale

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Issuer details printed in the invoice header.
const (
	issuerName    = "Surgical Prosthetics"
	issuerAddress = "123 Medical Plaza, Healthcare City"
	issuerPhone   = "Phone: +1 234 567 8901"
	issuerEmail   = "Email: info@surgicalprosthetics.com"
)

// RenderInvoicePDF produces the fixed-layout invoice document for a resolved
// sale. Pure formatting: every figure comes from the persisted record.
func RenderInvoicePDF(s *Sale) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.AddPage()

	// Issuer header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 9, issuerName)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{issuerAddress, issuerPhone, issuerEmail} {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(6)

	// Invoice meta and billed-to customer, side by side
	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(90, 7, "INVOICE")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 9)
	meta := []string{
		"Invoice Number: " + s.InvoiceNumber,
		"Date: " + s.CreatedAt.Format("02/01/2006"),
		"Payment Status: " + string(s.PaymentStatus),
		"Payment Method: " + string(s.PaymentMethod),
	}
	for _, line := range meta {
		pdf.Cell(90, 5, line)
		pdf.Ln(5)
	}

	pdf.SetXY(110, top)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 7, "Customer Details")
	pdf.SetFont("Helvetica", "", 9)
	y := top + 7
	if s.Customer != nil {
		lines := []string{"Name: " + s.Customer.Name, "Phone: " + s.Customer.Phone}
		if s.Customer.Email != "" {
			lines = append(lines, "Email: "+s.Customer.Email)
		}
		if s.Customer.Address != "" {
			lines = append(lines, "Address: "+s.Customer.Address)
		}
		for _, line := range lines {
			pdf.SetXY(110, y)
			pdf.Cell(0, 5, line)
			y += 5
		}
	}
	pdf.SetY(pdf.GetY() + 12)

	// Line item table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(60, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Model", "B", 0, "L", false, 0, "")
	pdf.CellFormat(18, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(28, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(28, 6, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range s.Items {
		pdf.CellFormat(60, 6, item.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, item.ModelNumber, "", 0, "L", false, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, money(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, money(item.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	totalRow := func(label, value string, bold bool) {
		if bold {
			pdf.SetFont("Helvetica", "B", 11)
		} else {
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(118, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, value, "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal:", money(s.Subtotal), false)
	totalRow(fmt.Sprintf("Tax (%s%%):", percent(s.TaxRate)), money(s.TaxAmount), false)
	if s.DiscountAmount.IsPositive() {
		totalRow(fmt.Sprintf("Discount (%s%%):", percent(s.DiscountRate)), "-"+money(s.DiscountAmount), false)
	}
	totalRow("Total:", money(s.Total), true)

	if s.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Cell(0, 5, "Notes:")
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, s.Notes, "", "L", false)
	}

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "Thank you for your business!", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(0)
}
