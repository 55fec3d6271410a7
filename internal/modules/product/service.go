package product

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service defines catalogue and stock business logic.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id string) error

	// AdjustStock applies a signed restock/correction through the same
	// atomic floor-checked primitive the sale workflow reserves with.
	AdjustStock(ctx context.Context, id string, req AdjustStockRequest) (*Product, error)

	ListLowStock(ctx context.Context) ([]*Product, error)
	InventoryValue(ctx context.Context) (*InventoryValue, error)

	UploadPhoto(ctx context.Context, id string, file multipart.File, header *multipart.FileHeader) (string, error)
}

type service struct {
	repo      Repository
	validate  *validator.Validate
	uploadDir string
	maxUpload int64
}

// NewService creates a new product service. uploadDir is where product photos
// are stored; maxUpload caps the accepted photo size in bytes.
func NewService(repo Repository, uploadDir string, maxUpload int64) Service {
	return &service{
		repo:      repo,
		validate:  validator.New(),
		uploadDir: uploadDir,
		maxUpload: maxUpload,
	}
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	category := Category(req.Category)
	if !ValidCategory(category) {
		return nil, fmt.Errorf("invalid category: %s (allowed: Limb, Joint, Spinal, Cranial, Dental, Other)", req.Category)
	}
	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("prices must not be negative")
	}

	threshold := DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	p := &Product{
		ID:                uuid.New(),
		Name:              req.Name,
		ModelNumber:       req.ModelNumber,
		Description:       req.Description,
		Category:          category,
		Size:              req.Size,
		CostPrice:         req.CostPrice,
		SellingPrice:      req.SellingPrice,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: threshold,
		Image:             DefaultImage,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 25
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ModelNumber != nil {
		p.ModelNumber = *req.ModelNumber
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		category := Category(*req.Category)
		if !ValidCategory(category) {
			return nil, fmt.Errorf("invalid category: %s", *req.Category)
		}
		p.Category = category
	}
	if req.Size != nil {
		p.Size = *req.Size
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("cost_price must not be negative")
		}
		p.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, fmt.Errorf("selling_price must not be negative")
		}
		p.SellingPrice = *req.SellingPrice
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removePhoto(p.Image)
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id string, req AdjustStockRequest) (*Product, error) {
	if req.Adjustment == 0 {
		return nil, fmt.Errorf("adjustment must not be zero")
	}
	if _, err := s.repo.AdjustStock(ctx, id, req.Adjustment); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *service) InventoryValue(ctx context.Context) (*InventoryValue, error) {
	return s.repo.InventoryValue(ctx)
}

func (s *service) UploadPhoto(ctx context.Context, id string, file multipart.File, header *multipart.FileHeader) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image") {
		return "", fmt.Errorf("please upload an image file")
	}
	if header.Size > s.maxUpload {
		return "", fmt.Errorf("please upload an image smaller than %d bytes", s.maxUpload)
	}

	name := fmt.Sprintf("photo_%s%s", p.ID, filepath.Ext(header.Filename))
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	s.removePhoto(p.Image)
	if err := s.repo.SetImage(ctx, id, name); err != nil {
		return "", err
	}
	return name, nil
}

// removePhoto deletes a stored photo unless it is the shared default.
func (s *service) removePhoto(image string) {
	if image == "" || image == DefaultImage {
		return
	}
	os.Remove(filepath.Join(s.uploadDir, image))
}
