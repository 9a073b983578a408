package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"
	"github.com/jeroroldan/admin-panel-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EmailEnqueuer hands emails to the async worker pool.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, job worker.EmailJob) error
}

// InvoiceRenderer turns an order into a printable document.
type InvoiceRenderer func(o *dto.OrderResponse) ([]byte, error)

type OrderService interface {
	Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]dto.OrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error)
	Remove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	Invoice(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type orderService struct {
	tx        repository.Transactor
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	stock     StockService
	numbers   *NumberGenerator
	mailer    EmailEnqueuer
	invoice   InvoiceRenderer
	now       func() time.Time
}

func NewOrderService(
	tx repository.Transactor,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	stock StockService,
	numbers *NumberGenerator,
	mailer EmailEnqueuer,
	invoice InvoiceRenderer,
) OrderService {
	return &orderService{
		tx:        tx,
		orders:    orders,
		customers: customers,
		products:  products,
		stock:     stock,
		numbers:   numbers,
		mailer:    mailer,
		invoice:   invoice,
		now:       time.Now,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
//   1. Resolve customer, products and totals (pre-flight, outside TX)
//   2. BEGIN TX: reserve number, insert order+items, lock and decrement stock, ledger rows
//   3. COMMIT (retried on order number collision)
//   4. Reload with relations, queue the confirmation email

func (s *orderService) Create(ctx context.Context, actorID *uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	customer, err := resolveCustomer(ctx, s.customers, req.CustomerID, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	lines, subtotal, err := priceLines(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}
	tax, shipping, discount := money(req.Tax), money(req.ShippingCost), money(req.Discount)
	total, err := grandTotal(subtotal, tax, shipping, discount)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:                    uuid.New(),
		CustomerID:            customer.ID,
		Status:                model.OrderPending,
		PaymentStatus:         model.PaymentPending,
		PaymentMethod:         req.PaymentMethod,
		Subtotal:              subtotal,
		Tax:                   tax,
		Discount:              discount,
		ShippingCost:          shipping,
		Total:                 total,
		Notes:                 req.Notes,
		ShippingAddress:       req.ShippingAddress,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		ProcessedByID:         actorID,
	}
	for _, l := range lines {
		order.Items = append(order.Items, model.OrderItem{
			ID:         l.itemID,
			OrderID:    order.ID,
			ProductID:  l.product.ID,
			Quantity:   l.quantity,
			UnitPrice:  l.unitPrice,
			TotalPrice: l.total,
		})
	}

	err = createWithRetry(ctx, s.tx, repository.OrderNumberIndex, func(tx *gorm.DB) error {
		number, err := s.numbers.NextTx(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		orderID := order.ID
		return reserveStockTx(tx, s.stock, lines, StockAdjustment{
			Type:          model.MovementOrder,
			Reason:        "Order " + number,
			ReferenceType: model.ReferenceOrder,
			ReferenceID:   &orderID,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order created")

	created, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, notFoundOr(err, "order", order.ID)
	}
	s.enqueueConfirmation(ctx, created, customer)
	return orderToResponse(created), nil
}

// enqueueConfirmation is best effort; the order is already committed.
func (s *orderService) enqueueConfirmation(ctx context.Context, o *model.Order, c *model.Customer) {
	if s.mailer == nil || c.Email == "" {
		return
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\nWe received your order %s.\n\n", c.FirstName, o.OrderNumber)
	for _, it := range o.Items {
		name := it.ProductID.String()
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(&body, "  %d x %s  %s\n", it.Quantity, name, it.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", o.Total.StringFixed(2))

	job := worker.EmailJob{
		Kind:    worker.EmailOrderConfirmation,
		To:      c.Email,
		Subject: "Order " + o.OrderNumber + " received",
		Body:    body.String(),
	}
	if err := s.mailer.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("order_number", o.OrderNumber).Msg("confirmation email not queued")
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return orderToResponse(o), nil
}

func (s *orderService) GetByNumber(ctx context.Context, number string) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, notFoundOr(err, "order", number)
	}
	return orderToResponse(o), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) ([]dto.OrderResponse, error) {
	q := repository.OrderQuery{Status: filter.Status, PaymentStatus: filter.PaymentStatus}
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

	orders, err := s.orders.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	resp := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		resp[i] = *orderToResponse(&orders[i])
	}
	return resp, nil
}

// ── Updates ───────────────────────────────────────────────────────────────────

func (s *orderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	fields := map[string]any{}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ShippingAddress != nil {
		fields["shipping_address"] = *req.ShippingAddress
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = *req.PaymentMethod
	}
	if req.EstimatedDeliveryDate != nil {
		fields["estimated_delivery_date"] = *req.EstimatedDeliveryDate
	}

	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.FindForUpdateTx(tx, id); err != nil {
			return notFoundOr(err, "order", id)
		}
		if len(fields) == 0 {
			return nil
		}
		return s.orders.UpdateFieldsTx(tx, id, fields)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateStatus applies one transition. Delivered stamps the delivery date if
// it is still unset; cancelled gives the stock back exactly once.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	var from string
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		o, err := s.orders.FindForUpdateTx(tx, id)
		if err != nil {
			return notFoundOr(err, "order", id)
		}
		from = o.Status
		if o.Status == req.Status {
			return nil
		}
		if !CanTransitionOrder(o.Status, req.Status) {
			return apierror.NewValidation([]apierror.FieldError{{
				Field:   "status",
				Message: fmt.Sprintf("cannot move order from %s to %s", o.Status, req.Status),
			}})
		}

		now := s.now()
		fields := map[string]any{"status": req.Status}
		if req.Status == model.OrderDelivered && o.ActualDeliveryDate == nil {
			fields["actual_delivery_date"] = now
		}
		if releasesStock(req.Status) && o.StockReleasedAt == nil {
			if err := releaseStockTx(tx, s.stock, orderStockLines(o), StockAdjustment{
				Type:          model.MovementOrderRestore,
				Reason:        "Order " + o.OrderNumber + " cancelled",
				ReferenceType: model.ReferenceOrder,
				ReferenceID:   &o.ID,
				ActorID:       actorID,
			}); err != nil {
				log.Error().Err(err).Str("order_id", id.String()).Msg("stock restoration failed, order not cancelled")
				return restoreError("order", o.OrderNumber, err)
			}
			fields["stock_released_at"] = now
		}
		return s.orders.UpdateFieldsTx(tx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	if from != req.Status {
		log.Info().
			Str("order_id", id.String()).
			Str("from", from).
			Str("to", req.Status).
			Msg("order status changed")
	}
	return s.Get(ctx, id)
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentStatusRequest) (*dto.OrderResponse, error) {
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.FindForUpdateTx(tx, id); err != nil {
			return notFoundOr(err, "order", id)
		}
		return s.orders.UpdateFieldsTx(tx, id, map[string]any{"payment_status": req.PaymentStatus})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ── Remove ────────────────────────────────────────────────────────────────────

// Remove deletes the order and its items. An order that was never delivered
// and whose stock was not released by a cancellation gives its stock back
// first; if that fails nothing is deleted.
func (s *orderService) Remove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	restored, restoreFailed := false, false
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		o, err := s.orders.FindForUpdateTx(tx, id)
		if err != nil {
			return notFoundOr(err, "order", id)
		}
		if o.Status != model.OrderDelivered && o.StockReleasedAt == nil {
			if err := releaseStockTx(tx, s.stock, orderStockLines(o), StockAdjustment{
				Type:          model.MovementOrderRestore,
				Reason:        "Order " + o.OrderNumber + " removed",
				ReferenceType: model.ReferenceOrder,
				ReferenceID:   &o.ID,
				ActorID:       actorID,
			}); err != nil {
				restoreFailed = true
				return restoreError("order", o.OrderNumber, err)
			}
			restored = true
		}
		return s.orders.DeleteTx(tx, id)
	})
	if err != nil {
		if restoreFailed {
			log.Error().Err(err).Str("order_id", id.String()).Msg("stock restoration failed, order not removed")
		}
		return err
	}
	log.Info().Str("order_id", id.String()).Bool("stock_restored", restored).Msg("order removed")
	return nil
}

// ── Invoice ───────────────────────────────────────────────────────────────────

func (s *orderService) Invoice(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if s.invoice == nil {
		return nil, "", apierror.Internal("invoice rendering is not configured")
	}
	pdf, err := s.invoice(o)
	if err != nil {
		return nil, "", fmt.Errorf("render invoice %s: %w", o.OrderNumber, err)
	}
	return pdf, "invoice-" + o.OrderNumber + ".pdf", nil
}

func orderStockLines(o *model.Order) []stockLine {
	lines := make([]stockLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = stockLine{itemID: it.ID, productID: it.ProductID, quantity: it.Quantity}
	}
	return lines
}
