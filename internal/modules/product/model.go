package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a prosthetic product. The set is closed.
type Category string

const (
	CategoryLimb    Category = "Limb"
	CategoryJoint   Category = "Joint"
	CategorySpinal  Category = "Spinal"
	CategoryCranial Category = "Cranial"
	CategoryDental  Category = "Dental"
	CategoryOther   Category = "Other"
)

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryLimb, CategoryJoint, CategorySpinal, CategoryCranial, CategoryDental, CategoryOther:
		return true
	}
	return false
}

// DefaultLowStockThreshold is applied when a product is created without one.
const DefaultLowStockThreshold = 5

// DefaultImage is the sentinel image name for products without a photo.
const DefaultImage = "no-photo.jpg"

// Product is an item held in the shop's inventory.
type Product struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	ModelNumber       string          `json:"model_number"`
	Description       string          `json:"description"`
	Category          Category        `json:"category"`
	Size              string          `json:"size,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Image             string          `json:"image"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsLowStock reports whether the product sits at or below its threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// CreateProductRequest is the payload for adding a product to the catalogue.
type CreateProductRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	ModelNumber       string          `json:"model_number" validate:"required"`
	Description       string          `json:"description" validate:"required,max=500"`
	Category          string          `json:"category" validate:"required"`
	Size              string          `json:"size,omitempty"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	StockQuantity     int             `json:"stock_quantity" validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
}

// UpdateProductRequest carries optional field overrides. Stock is excluded:
// quantity changes go through the atomic adjustment endpoint.
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	ModelNumber       *string          `json:"model_number,omitempty"`
	Description       *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Category          *string          `json:"category,omitempty"`
	Size              *string          `json:"size,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice      *decimal.Decimal `json:"selling_price,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
}

// AdjustStockRequest is the payload for a restock or correction.
type AdjustStockRequest struct {
	Adjustment int `json:"adjustment"`
}

// ListFilter is the typed allow-list of query filters for product listing.
type ListFilter struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Page     int
	Limit    int
}

// SaleInfo is the snapshot the sale workflow reads before reserving stock.
type SaleInfo struct {
	ID            uuid.UUID
	Name          string
	SellingPrice  decimal.Decimal
	StockQuantity int
}

// InventoryValue totals the stock on hand at cost and at selling price.
type InventoryValue struct {
	TotalProducts     int             `json:"total_products"`
	TotalItems        int             `json:"total_items"`
	TotalCostValue    decimal.Decimal `json:"total_cost_value"`
	TotalSellingValue decimal.Decimal `json:"total_selling_value"`
}
