package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockAdjustment is one ledger entry request. Quantity is always positive;
// the direction comes from the method it is passed to.
type StockAdjustment struct {
	ProductID       uuid.UUID
	Quantity        int
	Type            string
	Reason          string
	ReferenceType   string
	ReferenceID     *uuid.UUID
	ReferenceItemID *uuid.UUID
	ActorID         *uuid.UUID
}

// StockService owns every write to Product.stock.
type StockService interface {
	// LockTx takes row locks on the products in id order and returns them by id.
	LockTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Product, error)
	// DecrementTx fails with Conflict when the stock would go negative.
	DecrementTx(tx *gorm.DB, adj StockAdjustment) error
	IncrementTx(tx *gorm.DB, adj StockAdjustment) error

	Adjust(ctx context.Context, productID uuid.UUID, actorID *uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, error)
	LowStock(ctx context.Context) ([]dto.LowStockResponse, error)
}

type stockService struct {
	tx        repository.Transactor
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	cache     *PriceCache
}

func NewStockService(
	tx repository.Transactor,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	cache *PriceCache,
) StockService {
	return &stockService{tx: tx, products: products, movements: movements, cache: cache}
}

func (s *stockService) LockTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	locked, err := s.products.LockForUpdateTx(tx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *stockService) DecrementTx(tx *gorm.DB, adj StockAdjustment) error {
	return s.apply(tx, adj, -adj.Quantity)
}

func (s *stockService) IncrementTx(tx *gorm.DB, adj StockAdjustment) error {
	return s.apply(tx, adj, adj.Quantity)
}

func (s *stockService) apply(tx *gorm.DB, adj StockAdjustment, delta int) error {
	locked, err := s.LockTx(tx, []uuid.UUID{adj.ProductID})
	if err != nil {
		return err
	}
	p, ok := locked[adj.ProductID]
	if !ok {
		return apierror.NotFound("product %s not found", adj.ProductID)
	}

	if delta < 0 {
		err = s.products.DecrementStockTx(tx, p.ID, -delta)
	} else {
		err = s.products.IncrementStockTx(tx, p.ID, delta)
	}
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		return apierror.Conflict("insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, -delta)
	case repository.IsNotFound(err):
		return apierror.NotFound("product %s not found", adj.ProductID)
	case err != nil:
		return fmt.Errorf("update stock of %s: %w", p.ID, err)
	}

	mov := &model.StockMovement{
		ID:              uuid.New(),
		ProductID:       p.ID,
		Type:            adj.Type,
		Quantity:        delta,
		StockBefore:     p.Stock,
		StockAfter:      p.Stock + delta,
		Reason:          adj.Reason,
		ReferenceType:   adj.ReferenceType,
		ReferenceID:     adj.ReferenceID,
		ReferenceItemID: adj.ReferenceItemID,
		CreatedByID:     adj.ActorID,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		if repository.IsUniqueViolation(err) {
			return apierror.Conflict("stock %s already recorded for item %s", adj.Type, uuidString(adj.ReferenceItemID))
		}
		return fmt.Errorf("record stock movement: %w", err)
	}
	return nil
}

// Adjust applies a manual correction. The resulting stock must stay >= 0.
func (s *stockService) Adjust(ctx context.Context, productID uuid.UUID, actorID *uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if req.Delta == 0 {
		return nil, apierror.Validation("delta must not be zero")
	}
	adj := StockAdjustment{
		ProductID:     productID,
		Quantity:      abs(req.Delta),
		Type:          model.MovementAdjustment,
		Reason:        req.Reason,
		ReferenceType: model.ReferenceManual,
		ActorID:       actorID,
	}
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if req.Delta < 0 {
			return s.DecrementTx(tx, adj)
		}
		return s.IncrementTx(tx, adj)
	})
	if err != nil {
		return nil, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product", productID)
	}
	log.Info().
		Str("product_id", productID.String()).
		Int("delta", req.Delta).
		Int("stock", p.Stock).
		Msg("stock adjusted")
	s.cache.Invalidate(ctx, p.SKU)
	return productToResponse(p), nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) ([]dto.StockMovementResponse, error) {
	q := repository.StockMovementQuery{Type: filter.Type}
	if filter.ProductID != "" {
		id, err := parseID("productId", filter.ProductID)
		if err != nil {
			return nil, err
		}
		q.ProductID = &id
	}
	if filter.ReferenceID != "" {
		id, err := parseID("referenceId", filter.ReferenceID)
		if err != nil {
			return nil, err
		}
		q.ReferenceID = &id
	}

	movements, err := s.movements.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	resp := make([]dto.StockMovementResponse, len(movements))
	for i := range movements {
		resp[i] = movementToResponse(&movements[i])
	}
	return resp, nil
}

func (s *stockService) LowStock(ctx context.Context) ([]dto.LowStockResponse, error) {
	products, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	resp := make([]dto.LowStockResponse, len(products))
	for i, p := range products {
		resp[i] = dto.LowStockResponse{
			ProductID: p.ID.String(),
			Name:      p.Name,
			SKU:       p.SKU,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
		}
	}
	return resp, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
