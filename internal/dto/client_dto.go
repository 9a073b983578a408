package dto

import "time"

type CreateClientRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Email   string  `json:"email"   validate:"required,email"`
	Phone   *string `json:"phone"   validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Company *string `json:"company" validate:"omitempty,max=120"`
}

func (r CreateClientRequest) Validate() ValidationResult { return checkStruct(r) }

type UpdateClientRequest struct {
	Name    *string `json:"name"    validate:"omitempty,min=2,max=120"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"   validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Company *string `json:"company" validate:"omitempty,max=120"`
}

func (r UpdateClientRequest) Validate() ValidationResult { return checkStruct(r) }

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Company   *string   `json:"company"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
