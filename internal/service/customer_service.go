package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}
	c := &model.Customer{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicateOr(err, "customer", email)
	}
	log.Info().Str("customer_id", c.ID.String()).Msg("customer created")
	return customerToResponse(c), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = *customerToResponse(&customers[i])
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer", id)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != c.Email {
			if err := s.ensureEmailFree(ctx, email, c.ID); err != nil {
				return nil, err
			}
			c.Email = email
		}
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.City != nil {
		c.City = req.City
	}
	if req.Country != nil {
		c.Country = req.Country
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, duplicateOr(err, "customer", c.Email)
	}
	return customerToResponse(c), nil
}

// Delete is a soft delete; the email becomes available again.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return notFoundOr(err, "customer", id)
	}
	log.Info().Str("customer_id", id.String()).Msg("customer deleted")
	return nil
}

func (s *customerService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != self:
		return apierror.Conflict("a customer with email %s already exists", email)
	case err != nil && !repository.IsNotFound(err):
		return fmt.Errorf("check customer email: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// duplicateOr maps a unique violation to Conflict and wraps anything else.
func duplicateOr(err error, entity, key string) error {
	if repository.IsUniqueViolation(err) {
		return apierror.Conflict("a %s with email %s already exists", entity, key)
	}
	return fmt.Errorf("save %s: %w", entity, err)
}
