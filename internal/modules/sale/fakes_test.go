package sale

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prosthetix/prosthetics-backend/internal/modules/customer"
	"github.com/prosthetix/prosthetics-backend/internal/modules/product"
)

// ── in-memory product ledger ──────────────────────────────────────────────────

type memProducts struct {
	mu       sync.Mutex
	products map[string]*product.Product

	// reserveHook, when set, runs at the top of Reserve. Tests use it to
	// move stock between the pricing check and the reservation.
	reserveHook func(id string)
}

func newMemProducts(products ...*product.Product) *memProducts {
	m := &memProducts{products: make(map[string]*product.Product)}
	for _, p := range products {
		m.products[p.ID.String()] = p
	}
	return m
}

func (m *memProducts) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		return p.StockQuantity
	}
	return -1
}

func (m *memProducts) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID.String()] = p
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*product.Product
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memProducts) Update(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID.String()]; !ok {
		return product.ErrNotFound
	}
	m.products[p.ID.String()] = p
	return nil
}

func (m *memProducts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) GetForSale(ctx context.Context, id string) (*product.SaleInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &product.SaleInfo{
		ID:            p.ID,
		Name:          p.Name,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
	}, nil
}

func (m *memProducts) Reserve(ctx context.Context, id string, qty int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if hook := m.reserveHook; hook != nil {
		hook(id)
	}
	if qty <= 0 {
		return 0, product.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, product.ErrNotFound
	}
	if p.StockQuantity < qty {
		return 0, product.ErrInsufficientStock
	}
	p.StockQuantity -= qty
	return p.StockQuantity, nil
}

func (m *memProducts) Release(ctx context.Context, id string, qty int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, product.ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, product.ErrNotFound
	}
	p.StockQuantity += qty
	return p.StockQuantity, nil
}

func (m *memProducts) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, product.ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return 0, product.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (m *memProducts) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	return nil, nil
}

func (m *memProducts) InventoryValue(ctx context.Context) (*product.InventoryValue, error) {
	return &product.InventoryValue{}, nil
}

func (m *memProducts) SetImage(ctx context.Context, id string, image string) error {
	return nil
}

// ── in-memory customers ───────────────────────────────────────────────────────

type memCustomers struct {
	mu        sync.Mutex
	customers map[string]*customer.Customer
}

func newMemCustomers(customers ...*customer.Customer) *memCustomers {
	m := &memCustomers{customers: make(map[string]*customer.Customer)}
	for _, c := range customers {
		m.customers[c.ID.String()] = c
	}
	return m
}

func (m *memCustomers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.customers)
}

func (m *memCustomers) all() []*customer.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*customer.Customer
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out
}

func (m *memCustomers) Create(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID.String()] = c
	return nil
}

func (m *memCustomers) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (m *memCustomers) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, int, error) {
	return m.all(), m.count(), nil
}

func (m *memCustomers) Update(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID.String()]; !ok {
		return customer.ErrNotFound
	}
	m.customers[c.ID.String()] = c
	return nil
}

func (m *memCustomers) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return customer.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *memCustomers) Search(ctx context.Context, query string) ([]*customer.Customer, error) {
	return m.all(), nil
}

func (m *memCustomers) ListSales(ctx context.Context, customerID string) ([]customer.SaleSummary, error) {
	return nil, nil
}

// ── in-memory sale store ──────────────────────────────────────────────────────

var errCreateFailed = errors.New("simulated write failure")

type memSales struct {
	mu       sync.Mutex
	sales    map[string]*Sale
	counters map[string]int

	failCreate bool

	// createHook, when set, runs at the top of CreateSale. Tests use it to
	// cancel the context mid-persist.
	createHook func()

	// creatorName, when set, is attached to reads the way the postgres
	// repository resolves the creating user's name.
	creatorName string
}

func newMemSales() *memSales {
	return &memSales{sales: make(map[string]*Sale), counters: make(map[string]int)}
}

func (m *memSales) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sales)
}

func (m *memSales) CreateSale(ctx context.Context, s *Sale) error {
	if hook := m.createHook; hook != nil {
		hook()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errCreateFailed
	}
	cp := *s
	cp.CreatedAt = time.Now()
	m.sales[s.ID.String()] = &cp
	return nil
}

func (m *memSales) GetByID(ctx context.Context, id string) (*Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	cp.CreatedByName = m.creatorName
	return &cp, nil
}

func (m *memSales) List(ctx context.Context, filter ListFilter) ([]*Sale, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Sale
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memSales) NextInvoiceSeq(ctx context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[day]++
	return m.counters[day], nil
}

func (m *memSales) Report(ctx context.Context, since, until time.Time) (*Report, error) {
	return &Report{}, nil
}

// newTestProduct builds a product with the given price and stock.
func newTestProduct(name string, price float64, stock int) *product.Product {
	return &product.Product{
		ID:            uuid.New(),
		Name:          name,
		ModelNumber:   "MN-" + name,
		Category:      product.CategoryLimb,
		SellingPrice:  decimal.NewFromFloat(price),
		StockQuantity: stock,
	}
}
