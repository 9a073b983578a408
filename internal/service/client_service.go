package service

import (
	"context"
	"fmt"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
)

// ClientService manages the legacy client directory. Clients are not linked
// to orders or sales and are removed for good.
type ClientService interface {
	Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context) ([]dto.ClientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	c := &model.Client{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   normalizeEmail(req.Email),
		Phone:   req.Phone,
		Address: req.Address,
		Company: req.Company,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicateOr(err, "client", c.Email)
	}
	return clientToResponse(c), nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "client", id)
	}
	return clientToResponse(c), nil
}

func (s *clientService) List(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	resp := make([]dto.ClientResponse, len(clients))
	for i := range clients {
		resp[i] = *clientToResponse(&clients[i])
	}
	return resp, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "client", id)
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = normalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Company != nil {
		c.Company = req.Company
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, duplicateOr(err, "client", c.Email)
	}
	return clientToResponse(c), nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "client", id)
	}
	return nil
}
