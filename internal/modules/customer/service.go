package customer

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service defines customer business logic.
type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, int, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*Customer, error)
	History(ctx context.Context, id string) (*History, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new customer service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid customer: %w", err)
	}
	gender := Gender(req.Gender)
	if !ValidGender(gender) {
		return nil, fmt.Errorf("invalid gender: %s (allowed: Male, Female, Other)", req.Gender)
	}

	c := &Customer{
		ID:              uuid.New(),
		Name:            req.Name,
		Age:             req.Age,
		Gender:          gender,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		DoctorReference: req.DoctorReference,
		MedicalHistory:  req.MedicalHistory,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Customer, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 25
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid customer: %w", err)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Age != nil {
		c.Age = *req.Age
	}
	if req.Gender != nil {
		gender := Gender(*req.Gender)
		if !ValidGender(gender) {
			return nil, fmt.Errorf("invalid gender: %s", *req.Gender)
		}
		c.Gender = gender
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.DoctorReference != nil {
		c.DoctorReference = req.DoctorReference
	}
	if req.MedicalHistory != nil {
		c.MedicalHistory = *req.MedicalHistory
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Search(ctx context.Context, query string) ([]*Customer, error) {
	if query == "" {
		return nil, fmt.Errorf("please provide a search query")
	}
	return s.repo.Search(ctx, query)
}

func (s *service) History(ctx context.Context, id string) (*History, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.ListSales(ctx, id)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []SaleSummary{}
	}
	return &History{Customer: c, Sales: sales}, nil
}
