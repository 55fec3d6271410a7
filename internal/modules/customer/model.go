package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gender is the closed set accepted for customer records.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ValidGender reports whether g belongs to the closed gender set.
func ValidGender(g Gender) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Walk-in placeholder values, used when a sale is created without a customer.
const (
	WalkInName  = "Walk-in Customer"
	WalkInAge   = 0
	WalkInPhone = "000-000-0000"
)

// Address is a customer's postal address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// DoctorReference records the referring doctor, if any.
type DoctorReference struct {
	Name     string `json:"name,omitempty"`
	Hospital string `json:"hospital,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Customer is a person the shop has fitted or sold to.
type Customer struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Age             int              `json:"age"`
	Gender          Gender           `json:"gender"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email,omitempty"`
	Address         *Address         `json:"address,omitempty"`
	DoctorReference *DoctorReference `json:"doctor_reference,omitempty"`
	MedicalHistory  string           `json:"medical_history,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CreateCustomerRequest is the payload for registering a customer.
type CreateCustomerRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	Age             int              `json:"age" validate:"min=0"`
	Gender          string           `json:"gender" validate:"required"`
	Phone           string           `json:"phone" validate:"required,max=20"`
	Email           string           `json:"email,omitempty" validate:"omitempty,email"`
	Address         *Address         `json:"address,omitempty"`
	DoctorReference *DoctorReference `json:"doctor_reference,omitempty"`
	MedicalHistory  string           `json:"medical_history,omitempty"`
}

// UpdateCustomerRequest carries optional field overrides.
type UpdateCustomerRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Age             *int             `json:"age,omitempty" validate:"omitempty,min=0"`
	Gender          *string          `json:"gender,omitempty"`
	Phone           *string          `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email           *string          `json:"email,omitempty" validate:"omitempty,email"`
	Address         *Address         `json:"address,omitempty"`
	DoctorReference *DoctorReference `json:"doctor_reference,omitempty"`
	MedicalHistory  *string          `json:"medical_history,omitempty"`
}

// ListFilter is the typed allow-list of query filters for customer listing.
type ListFilter struct {
	Gender string
	Search string
	Sort   string
	Page   int
	Limit  int
}

// SaleSummary is the slice of a sale shown in a customer's history.
type SaleSummary struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// History is a customer joined with their past sales.
type History struct {
	Customer *Customer     `json:"customer"`
	Sales    []SaleSummary `json:"sales"`
}
