package product

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	products map[string]*Product
}

func newMemRepo() *memRepo {
	return &memRepo{products: make(map[string]*Product)}
}

func (m *memRepo) Create(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID.String()] = p
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]*Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID.String()]; !ok {
		return ErrNotFound
	}
	m.products[p.ID.String()] = p
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memRepo) GetForSale(ctx context.Context, id string) (*SaleInfo, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleInfo{ID: p.ID, Name: p.Name, SellingPrice: p.SellingPrice, StockQuantity: p.StockQuantity}, nil
}

func (m *memRepo) Reserve(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return m.AdjustStock(ctx, id, -qty)
}

func (m *memRepo) Release(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return m.AdjustStock(ctx, id, qty)
}

func (m *memRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return 0, ErrNotFound
	}
	if p.StockQuantity+delta < 0 {
		return 0, ErrInsufficientStock
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (m *memRepo) ListLowStock(ctx context.Context) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if p.IsLowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) InventoryValue(ctx context.Context) (*InventoryValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := &InventoryValue{TotalProducts: len(m.products)}
	for _, p := range m.products {
		qty := decimal.NewFromInt(int64(p.StockQuantity))
		v.TotalItems += p.StockQuantity
		v.TotalCostValue = v.TotalCostValue.Add(p.CostPrice.Mul(qty))
		v.TotalSellingValue = v.TotalSellingValue.Add(p.SellingPrice.Mul(qty))
	}
	return v, nil
}

func (m *memRepo) SetImage(ctx context.Context, id string, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Image = image
	return nil
}

func validCreateRequest() CreateProductRequest {
	return CreateProductRequest{
		Name:          "Carbon Fiber Leg",
		ModelNumber:   "CL-200",
		Description:   "Below-knee carbon fiber prosthetic",
		Category:      "Limb",
		CostPrice:     decimal.NewFromInt(400),
		SellingPrice:  decimal.NewFromInt(650),
		StockQuantity: 12,
	}
}

func TestCreateProductDefaults(t *testing.T) {
	svc := NewService(newMemRepo(), t.TempDir(), 1<<20)

	p, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockThreshold, p.LowStockThreshold)
	assert.Equal(t, DefaultImage, p.Image)
	assert.Equal(t, CategoryLimb, p.Category)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemRepo(), t.TempDir(), 1<<20)

	t.Run("missing name", func(t *testing.T) {
		req := validCreateRequest()
		req.Name = ""
		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("bad category", func(t *testing.T) {
		req := validCreateRequest()
		req.Category = "Gadget"
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid category")
	})

	t.Run("negative price", func(t *testing.T) {
		req := validCreateRequest()
		req.SellingPrice = decimal.NewFromInt(-1)
		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestUpdateProductPartial(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, t.TempDir(), 1<<20)
	p, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	name := "Carbon Fiber Leg v2"
	price := decimal.NewFromInt(700)
	updated, err := svc.Update(context.Background(), p.ID.String(), UpdateProductRequest{
		Name:         &name,
		SellingPrice: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.SellingPrice.Equal(price))
	assert.Equal(t, p.ModelNumber, updated.ModelNumber)
	assert.Equal(t, p.StockQuantity, updated.StockQuantity, "update must not touch stock")
}

func TestUpdateProductBadCategory(t *testing.T) {
	svc := NewService(newMemRepo(), t.TempDir(), 1<<20)
	p, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	bad := "Widget"
	_, err = svc.Update(context.Background(), p.ID.String(), UpdateProductRequest{Category: &bad})
	assert.Error(t, err)
}

func TestAdjustStock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, t.TempDir(), 1<<20)
	p, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.AdjustStock(context.Background(), p.ID.String(), AdjustStockRequest{Adjustment: 8})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.StockQuantity)

	updated, err = svc.AdjustStock(context.Background(), p.ID.String(), AdjustStockRequest{Adjustment: -5})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.StockQuantity)

	_, err = svc.AdjustStock(context.Background(), p.ID.String(), AdjustStockRequest{Adjustment: -100})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AdjustStock(context.Background(), p.ID.String(), AdjustStockRequest{Adjustment: 0})
	assert.Error(t, err)
}

func TestDeleteProductNotFound(t *testing.T) {
	svc := NewService(newMemRepo(), t.TempDir(), 1<<20)
	err := svc.Delete(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsLowStock(t *testing.T) {
	p := &Product{StockQuantity: 5, LowStockThreshold: 5}
	assert.True(t, p.IsLowStock())
	p.StockQuantity = 6
	assert.False(t, p.IsLowStock())
}

func TestInventoryValue(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, t.TempDir(), 1<<20)
	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	v, err := svc.InventoryValue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v.TotalProducts)
	assert.Equal(t, 12, v.TotalItems)
	assert.True(t, v.TotalCostValue.Equal(decimal.NewFromInt(4800)))
	assert.True(t, v.TotalSellingValue.Equal(decimal.NewFromInt(7800)))
}
