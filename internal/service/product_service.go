package service

import (
	"context"
	"fmt"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	LookupBySKU(ctx context.Context, sku string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	tx    repository.Transactor
	repo  repository.ProductRepository
	stock StockService
	cache *PriceCache
}

func NewProductService(tx repository.Transactor, repo repository.ProductRepository, stock StockService, cache *PriceCache) ProductService {
	return &productService{tx: tx, repo: repo, stock: stock, cache: cache}
}

// Create inserts the product with zero stock and books the opening quantity
// as an adjustment, so the ledger explains every unit on hand.
func (s *productService) Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}
	p := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Category:    category,
		Price:       req.Price.Round(2),
		CostPrice:   req.CostPrice.Round(2),
		MinStock:    req.MinStock,
		IsActive:    true,
	}
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			if repository.IsUniqueViolation(err) {
				return apierror.Conflict("a product with sku %s already exists", req.SKU)
			}
			return fmt.Errorf("create product: %w", err)
		}
		if req.Stock == 0 {
			return nil
		}
		return s.stock.IncrementTx(tx, StockAdjustment{
			ProductID:     p.ID,
			Quantity:      req.Stock,
			Type:          model.MovementAdjustment,
			Reason:        "Opening stock",
			ReferenceType: model.ReferenceManual,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("product_id", p.ID.String()).Str("sku", p.SKU).Msg("product created")
	return s.Get(ctx, p.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = *productToResponse(&products[i])
	}
	return resp, nil
}

// Update changes catalogue fields. Stock is not editable here; use the
// stock adjustment endpoint instead.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	oldSKU := p.SKU

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.CostPrice != nil {
		p.CostPrice = req.CostPrice.Round(2)
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.Conflict("a product with sku %s already exists", p.SKU)
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	s.cache.Invalidate(ctx, oldSKU, p.SKU)
	return s.Get(ctx, id)
}

// Deactivate hides the product from sales; history keeps pointing at it.
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "product", id)
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "product", id)
	}
	s.cache.Invalidate(ctx, p.SKU)
	log.Info().Str("product_id", id.String()).Msg("product deactivated")
	return nil
}

// LookupBySKU serves the public price check, cache first.
func (s *productService) LookupBySKU(ctx context.Context, sku string) (*dto.PriceLookupResponse, error) {
	if cached, ok := s.cache.Get(ctx, sku); ok {
		return cached, nil
	}
	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, notFoundOr(err, "product", sku)
	}
	resp := &dto.PriceLookupResponse{
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Available: p.Stock,
		Category:  p.Category,
	}
	s.cache.Set(ctx, resp)
	return resp, nil
}
