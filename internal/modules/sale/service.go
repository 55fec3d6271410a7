package sale

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prosthetix/prosthetics-backend/internal/modules/customer"
	"github.com/prosthetix/prosthetics-backend/internal/modules/product"
)

// Service defines the sale workflow business logic.
type Service interface {
	// Create runs the full sale transaction: validate, resolve the customer,
	// price and reserve stock, allocate an invoice number, persist. On any
	// failure all stock reservations made for this sale are released; the
	// outcome is all-or-nothing apart from a possible walk-in customer row.
	Create(ctx context.Context, actorID string, req CreateSaleRequest) (*Sale, error)

	// Get returns a sale with customer and product references resolved.
	Get(ctx context.Context, id string) (*Sale, error)

	List(ctx context.Context, filter ListFilter) ([]*Sale, int, error)

	// InvoicePDF renders the invoice document for a sale.
	InvoicePDF(ctx context.Context, id string) ([]byte, string, error)

	// Report aggregates sales for a named period or an explicit date range.
	Report(ctx context.Context, period, startDate, endDate string) (*Report, error)
}

type service struct {
	repo      Repository
	products  product.Repository
	customers customer.Repository

	// now is the clock used for invoice dating; replaceable in tests.
	now func() time.Time
}

// NewService creates a new sale service.
func NewService(repo Repository, products product.Repository, customers customer.Repository) Service {
	return &service{
		repo:      repo,
		products:  products,
		customers: customers,
		now:       time.Now,
	}
}

// pricedItem pairs a requested line with its product snapshot from pricing.
type pricedItem struct {
	input SaleItemInput
	info  *product.SaleInfo
}

func (s *service) Create(ctx context.Context, actorID string, req CreateSaleRequest) (*Sale, error) {
	// ── Validate ──────────────────────────────────────────────────────────────
	if len(req.Items) == 0 {
		return nil, validationErr("please add at least one item")
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationErr("quantity must be greater than 0 for item %d", i+1)
		}
	}

	method := PaymentCash
	if req.PaymentMethod != "" {
		method = PaymentMethod(req.PaymentMethod)
		if !ValidPaymentMethod(method) {
			return nil, validationErr("invalid payment_method: %s", req.PaymentMethod)
		}
	}
	status := StatusPaid
	if req.PaymentStatus != "" {
		status = PaymentStatus(req.PaymentStatus)
		if !ValidPaymentStatus(status) {
			return nil, validationErr("invalid payment_status: %s", req.PaymentStatus)
		}
	}

	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, validationErr("invalid creator id")
	}

	// ── Resolve customer ──────────────────────────────────────────────────────
	// A walk-in row created here is not rolled back if the sale later fails;
	// the orphan is accepted, matching the behaviour staff rely on.
	customerID, err := s.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return nil, err
	}

	// ── Price items ───────────────────────────────────────────────────────────
	// Every line is checked before any stock moves; the reservation step
	// re-validates atomically, so this pass exists to reject obviously bad
	// requests without side effects.
	priced := make([]pricedItem, 0, len(req.Items))
	for i, item := range req.Items {
		info, err := s.products.GetForSale(ctx, item.Product)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, notFoundErr("product not found for item %d", i+1)
			}
			return nil, persistenceErr(err, "error reading product for item %d", i+1)
		}
		if item.Quantity > info.StockQuantity {
			return nil, stockErr("Not enough stock for %s. Available: %d, Requested: %d",
				info.Name, info.StockQuantity, item.Quantity)
		}
		priced = append(priced, pricedItem{input: item, info: info})
	}

	// ── Reserve stock ─────────────────────────────────────────────────────────
	reserved := make([]pricedItem, 0, len(priced))
	release := func() {
		// Compensation must run even when the caller has gone away; a
		// cancelled request context would abort the very releases that
		// undo its reservations.
		ctx := context.WithoutCancel(ctx)
		for _, p := range reserved {
			// A failed release leaves stock low rather than oversold,
			// which is the safer direction.
			if _, err := s.products.Release(ctx, p.input.Product, p.input.Quantity); err != nil {
				log.Printf("failed to release %d of product %s after aborted sale: %v",
					p.input.Quantity, p.input.Product, err)
			}
		}
	}
	for _, p := range priced {
		if _, err := s.products.Reserve(ctx, p.input.Product, p.input.Quantity); err != nil {
			release()
			switch {
			case errors.Is(err, product.ErrInsufficientStock):
				// Stock moved between the check and the reservation.
				info, getErr := s.products.GetForSale(ctx, p.input.Product)
				if getErr == nil {
					return nil, stockErr("Not enough stock for %s. Available: %d, Requested: %d",
						info.Name, info.StockQuantity, p.input.Quantity)
				}
				return nil, stockErr("Not enough stock for %s. Requested: %d", p.info.Name, p.input.Quantity)
			case errors.Is(err, product.ErrNotFound):
				return nil, notFoundErr("product %s not found", p.input.Product)
			default:
				return nil, persistenceErr(err, "error reserving stock for %s", p.info.Name)
			}
		}
		reserved = append(reserved, p)
	}

	// ── Compute totals ────────────────────────────────────────────────────────
	items := make([]SaleItem, 0, len(priced))
	subtotal := decimal.Zero
	for _, p := range priced {
		lineTotal := p.info.SellingPrice.Mul(decimal.NewFromInt(int64(p.input.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, SaleItem{
			ProductID: p.info.ID,
			Quantity:  p.input.Quantity,
			Price:     p.info.SellingPrice,
			Total:     lineTotal,
		})
	}

	taxRate := DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	discountRate := decimal.Zero
	if req.DiscountRate != nil {
		discountRate = *req.DiscountRate
	}
	taxAmount := subtotal.Mul(taxRate)
	discountAmount := subtotal.Mul(discountRate)
	total := subtotal.Add(taxAmount).Sub(discountAmount)

	// ── Allocate invoice number ───────────────────────────────────────────────
	day := s.now().Format("20060102")
	seq, err := s.repo.NextInvoiceSeq(ctx, day)
	if err != nil {
		release()
		return nil, persistenceErr(err, "error allocating invoice number")
	}
	invoiceNumber := FormatInvoiceNumber(day, seq)

	// ── Persist ───────────────────────────────────────────────────────────────
	record := &Sale{
		ID:             uuid.New(),
		InvoiceNumber:  invoiceNumber,
		CustomerID:     customerID,
		Items:          items,
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		Total:          total,
		PaymentMethod:  method,
		PaymentStatus:  status,
		Notes:          req.Notes,
		CreatedBy:      createdBy,
	}
	if err := s.repo.CreateSale(ctx, record); err != nil {
		// The invoice number stays consumed; numbers from failed sales are
		// abandoned, never reused.
		release()
		return nil, persistenceErr(err, "error creating sale")
	}
	return record, nil
}

// resolveCustomer returns the id of the referenced customer, creating a
// walk-in placeholder when none is given.
func (s *service) resolveCustomer(ctx context.Context, id string) (uuid.UUID, error) {
	if id == "" {
		walkIn := &customer.Customer{
			ID:     uuid.New(),
			Name:   customer.WalkInName,
			Age:    customer.WalkInAge,
			Gender: customer.GenderOther,
			Phone:  customer.WalkInPhone,
		}
		if err := s.customers.Create(ctx, walkIn); err != nil {
			return uuid.Nil, persistenceErr(err, "error creating walk-in customer")
		}
		return walkIn.ID, nil
	}
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return uuid.Nil, notFoundErr("customer not found")
		}
		return uuid.Nil, persistenceErr(err, "error reading customer")
	}
	return c.ID, nil
}

func (s *service) Get(ctx context.Context, id string) (*Sale, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErr("sale not found")
		}
		return nil, persistenceErr(err, "error getting sale")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Sale, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 25
	}
	return s.repo.List(ctx, filter)
}

func (s *service) InvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := RenderInvoicePDF(record)
	if err != nil {
		return nil, "", persistenceErr(err, "error generating invoice")
	}
	return pdf, fmt.Sprintf("invoice-%s.pdf", record.InvoiceNumber), nil
}

func (s *service) Report(ctx context.Context, period, startDate, endDate string) (*Report, error) {
	since, until, err := reportWindow(s.now(), period, startDate, endDate)
	if err != nil {
		return nil, validationErr("%s", err)
	}
	report, err := s.repo.Report(ctx, since, until)
	if err != nil {
		return nil, persistenceErr(err, "error generating sales report")
	}
	return report, nil
}

// reportWindow resolves a named period or explicit range into [since, until].
func reportWindow(now time.Time, period, startDate, endDate string) (time.Time, time.Time, error) {
	if startDate != "" && endDate != "" {
		since, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %s", startDate)
		}
		until, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %s", endDate)
		}
		return since, until.Add(24*time.Hour - time.Nanosecond), nil
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "daily":
		return midnight, now, nil
	case "weekly":
		return midnight.AddDate(0, 0, -int(now.Weekday())), now, nil
	case "monthly":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case "yearly":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, nil
	default:
		return now.AddDate(0, 0, -30), now, nil
	}
}
