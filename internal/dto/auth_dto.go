package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

func (r LoginRequest) Validate() ValidationResult { return checkStruct(r) }

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (r RefreshRequest) Validate() ValidationResult { return checkStruct(r) }

type CreateUserRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=1,max=80"`
	LastName  string `json:"lastName"  validate:"required,min=1,max=80"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	Role      string `json:"role"      validate:"required,oneof=admin manager employee"`
}

func (r CreateUserRequest) Validate() ValidationResult { return checkStruct(r) }

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1,max=80"`
	Role      *string `json:"role"      validate:"omitempty,oneof=admin manager employee"`
	Password  *string `json:"password"  validate:"omitempty,min=8,max=72"`
	IsActive  *bool   `json:"isActive"`
}

func (r UpdateUserRequest) Validate() ValidationResult { return checkStruct(r) }

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresIn    int          `json:"expiresIn"` // seconds
	User         UserResponse `json:"user"`
}
