package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.UpdateSaleStatusRequest) (*dto.SaleResponse, error)
	Remove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
}

type saleService struct {
	tx        repository.Transactor
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	stock     StockService
	numbers   *NumberGenerator
	now       func() time.Time
}

func NewSaleService(
	tx repository.Transactor,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	stock StockService,
	numbers *NumberGenerator,
) SaleService {
	return &saleService{
		tx:        tx,
		sales:     sales,
		customers: customers,
		products:  products,
		stock:     stock,
		numbers:   numbers,
		now:       time.Now,
	}
}

// Create registers a counter sale. Header, items, stock and ledger rows
// commit together or not at all.
func (s *saleService) Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customer, err := resolveCustomer(ctx, s.customers, req.CustomerID, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	lines, subtotal, err := priceLines(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}
	tax, discount := money(req.Tax), money(req.Discount)
	amount, err := grandTotal(subtotal, tax, money(nil), discount)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.SaleCompleted
	}
	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCash
	}
	saleDate := s.now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	sale := &model.Sale{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		Amount:        amount,
		SaleDate:      saleDate,
		Status:        status,
		PaymentMethod: method,
		Notes:         req.Notes,
		ProcessedByID: actorID,
	}
	for _, l := range lines {
		sale.Items = append(sale.Items, model.SaleItem{
			ID:         l.itemID,
			SaleID:     sale.ID,
			ProductID:  l.product.ID,
			Quantity:   l.quantity,
			UnitPrice:  l.unitPrice,
			TotalPrice: l.total,
		})
	}

	err = createWithRetry(ctx, s.tx, repository.SaleNumberIndex, func(tx *gorm.DB) error {
		number, err := s.numbers.NextTx(tx)
		if err != nil {
			return err
		}
		sale.SaleNumber = number
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return err
		}
		saleID := sale.ID
		return reserveStockTx(tx, s.stock, lines, StockAdjustment{
			Type:          model.MovementSale,
			Reason:        "Sale " + number,
			ReferenceType: model.ReferenceSale,
			ReferenceID:   &saleID,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("sale_number", sale.SaleNumber).
		Str("amount", sale.Amount.StringFixed(2)).
		Str("payment_method", sale.PaymentMethod).
		Msg("sale registered")

	return s.Get(ctx, sale.ID)
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sale", id)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	q := repository.SaleQuery{Status: filter.Status, PaymentMethod: filter.PaymentMethod}
	if filter.CustomerID != "" {
		id, err := parseID("customerId", filter.CustomerID)
		if err != nil {
			return nil, err
		}
		q.CustomerID = &id
	}
	from, to, err := dayRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	q.From, q.To = from, to

	sales, err := s.sales.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	resp := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		resp[i] = *saleToResponse(&sales[i])
	}
	return resp, nil
}

// UpdateStatus moves pending to completed or cancelled, and completed to
// refunded. Cancelled and refunded give the stock back once.
func (s *saleService) UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.UpdateSaleStatusRequest) (*dto.SaleResponse, error) {
	var from string
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		sale, err := s.sales.FindForUpdateTx(tx, id)
		if err != nil {
			return notFoundOr(err, "sale", id)
		}
		from = sale.Status
		if sale.Status == req.Status {
			return nil
		}
		if !CanTransitionSale(sale.Status, req.Status) {
			return apierror.NewValidation([]apierror.FieldError{{
				Field:   "status",
				Message: fmt.Sprintf("cannot move sale from %s to %s", sale.Status, req.Status),
			}})
		}

		fields := map[string]any{"status": req.Status}
		if releasesStock(req.Status) && sale.StockReleasedAt == nil {
			if err := releaseStockTx(tx, s.stock, saleStockLines(sale), StockAdjustment{
				Type:          model.MovementSaleRestore,
				Reason:        "Sale " + sale.SaleNumber + " " + req.Status,
				ReferenceType: model.ReferenceSale,
				ReferenceID:   &sale.ID,
				ActorID:       actorID,
			}); err != nil {
				log.Error().Err(err).Str("sale_id", id.String()).Msg("stock restoration failed, sale status unchanged")
				return restoreError("sale", sale.SaleNumber, err)
			}
			fields["stock_released_at"] = s.now()
		}
		return s.sales.UpdateFieldsTx(tx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	if from != req.Status {
		log.Info().
			Str("sale_id", id.String()).
			Str("from", from).
			Str("to", req.Status).
			Msg("sale status changed")
	}
	return s.Get(ctx, id)
}

// Remove deletes the sale and its items, giving the stock back when the sale
// was not completed and its stock is still deducted.
func (s *saleService) Remove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	restored, restoreFailed := false, false
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		sale, err := s.sales.FindForUpdateTx(tx, id)
		if err != nil {
			return notFoundOr(err, "sale", id)
		}
		if sale.Status != model.SaleCompleted && sale.StockReleasedAt == nil {
			if err := releaseStockTx(tx, s.stock, saleStockLines(sale), StockAdjustment{
				Type:          model.MovementSaleRestore,
				Reason:        "Sale " + sale.SaleNumber + " removed",
				ReferenceType: model.ReferenceSale,
				ReferenceID:   &sale.ID,
				ActorID:       actorID,
			}); err != nil {
				restoreFailed = true
				return restoreError("sale", sale.SaleNumber, err)
			}
			restored = true
		}
		return s.sales.DeleteTx(tx, id)
	})
	if err != nil {
		if restoreFailed {
			log.Error().Err(err).Str("sale_id", id.String()).Msg("stock restoration failed, sale not removed")
		}
		return err
	}
	log.Info().Str("sale_id", id.String()).Bool("stock_restored", restored).Msg("sale removed")
	return nil
}

func saleStockLines(sale *model.Sale) []stockLine {
	lines := make([]stockLine, len(sale.Items))
	for i, it := range sale.Items {
		lines[i] = stockLine{itemID: it.ID, productID: it.ProductID, quantity: it.Quantity}
	}
	return lines
}
