package dto

import "time"

type CreateCustomerRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=1,max=80"`
	LastName  string  `json:"lastName"  validate:"required,min=1,max=80"`
	Email     string  `json:"email"     validate:"required,email"`
	Phone     *string `json:"phone"     validate:"omitempty,max=30"`
	Address   *string `json:"address"   validate:"omitempty,max=255"`
	City      *string `json:"city"      validate:"omitempty,max=80"`
	Country   *string `json:"country"   validate:"omitempty,max=80"`
}

func (r CreateCustomerRequest) Validate() ValidationResult { return checkStruct(r) }

type UpdateCustomerRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1,max=80"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Phone     *string `json:"phone"     validate:"omitempty,max=30"`
	Address   *string `json:"address"   validate:"omitempty,max=255"`
	City      *string `json:"city"      validate:"omitempty,max=80"`
	Country   *string `json:"country"   validate:"omitempty,max=80"`
	IsActive  *bool   `json:"isActive"`
}

func (r UpdateCustomerRequest) Validate() ValidationResult { return checkStruct(r) }

type CustomerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	Country   *string   `json:"country"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
