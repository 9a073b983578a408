package service

import (
	"context"
	"testing"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreate_TotalsStockAndLedger(t *testing.T) {
	f := newFixture(t)
	mouse := f.addProduct("Mouse", "10.00", 5)
	cable := f.addProduct("Cable", "2.50", 10)
	actor := uuid.New()

	resp, err := f.orders.Create(context.Background(), &actor, dto.CreateOrderRequest{
		CustomerID:   f.customerRef(),
		Items:        []dto.LineItemRequest{line(mouse, 2), line(cable, 4)},
		Tax:          dec("1.50"),
		ShippingCost: dec("5"),
		Discount:     dec("3"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20240115-0001", resp.OrderNumber)
	assert.Equal(t, model.OrderPending, resp.Status)
	assert.Equal(t, model.PaymentPending, resp.PaymentStatus)
	assert.Equal(t, "30.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "33.50", resp.Total.StringFixed(2))

	lineSum := decimal.Zero
	for _, it := range resp.Items {
		lineSum = lineSum.Add(it.TotalPrice)
		assert.True(t, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.TotalPrice))
	}
	assert.True(t, lineSum.Equal(resp.Subtotal), "subtotal is the sum of line totals")

	assert.Equal(t, 3, f.stockOf(mouse.ID))
	assert.Equal(t, 6, f.stockOf(cable.ID))

	require.Len(t, f.store.movements, 2)
	itemIDs := map[string]bool{}
	for _, it := range resp.Items {
		itemIDs[it.ID] = true
	}
	for _, m := range f.store.movements {
		assert.Equal(t, model.MovementOrder, m.Type)
		assert.Less(t, m.Quantity, 0)
		assert.Equal(t, m.StockBefore+m.Quantity, m.StockAfter)
		require.NotNil(t, m.ReferenceItemID)
		assert.True(t, itemIDs[m.ReferenceItemID.String()], "ledger row names its line item")
		assert.Equal(t, &actor, m.CreatedByID)
	}

	require.Len(t, f.mailer.jobs, 1)
	assert.Equal(t, worker.EmailOrderConfirmation, f.mailer.jobs[0].Kind)
	assert.Equal(t, "ana@example.com", f.mailer.jobs[0].To)
}

func TestOrderCreate_UnitPriceOverrideIsRounded(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Desk", "100.00", 3)

	item := line(p, 3)
	item.UnitPrice = dec("19.999")
	resp, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerID: f.customerRef(),
		Items:      []dto.LineItemRequest{item},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", resp.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "60.00", resp.Total.StringFixed(2))
	assert.Equal(t, 0, f.stockOf(p.ID))
}

func TestOrderCreate_ByCustomerEmail(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Pen", "1.00", 1)

	email := "ANA@example.com"
	resp, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerEmail: &email,
		Items:         []dto.LineItemRequest{line(p, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID.String(), resp.CustomerID)
}

func TestOrderCreate_PreflightFailuresWriteNothing(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct("A", "1.00", 5)
	b := f.addProduct("B", "1.00", 2)
	inactive := f.addProduct("Old", "1.00", 9)
	inactive.IsActive = false
	f.store.products[inactive.ID] = inactive
	missing := uuid.New().String()
	deleted := uuid.New().String()

	cases := map[string]struct {
		req  dto.CreateOrderRequest
		code apierror.Code
	}{
		"insufficient stock on second line": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(a, 5), line(b, 3)}},
			code: apierror.CodeConflict,
		},
		"same product twice exceeds stock": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(b, 1), line(b, 2)}},
			code: apierror.CodeConflict,
		},
		"unknown product": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{{ProductID: missing, Quantity: 1}}},
			code: apierror.CodeNotFound,
		},
		"inactive product": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(inactive, 1)}},
			code: apierror.CodeValidation,
		},
		"unknown customer": {
			req:  dto.CreateOrderRequest{CustomerID: &deleted, Items: []dto.LineItemRequest{line(a, 1)}},
			code: apierror.CodeNotFound,
		},
		"discount above total": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(a, 1)}, Discount: dec("2")},
			code: apierror.CodeValidation,
		},
		"negative tax": {
			req:  dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(a, 1)}, Tax: dec("-1")},
			code: apierror.CodeValidation,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.Create(context.Background(), nil, tc.req)
			require.Error(t, err)
			assert.True(t, apierror.Is(err, tc.code), "got %v", err)

			assert.Equal(t, 5, f.stockOf(a.ID))
			assert.Equal(t, 2, f.stockOf(b.ID))
			assert.Empty(t, f.store.orders)
			assert.Empty(t, f.store.movements)
		})
	}
}

func TestOrderCreate_StockTakenDuringTransactionRollsBackEveryLine(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct("A", "1.00", 5)
	b := f.addProduct("B", "1.00", 2)

	// Another checkout takes one unit of B between pre-flight and the lock.
	f.store.beforeLockHook = func(s *memStore) {
		p := s.products[b.ID]
		p.Stock = 1
		s.products[b.ID] = p
	}

	_, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerID: f.customerRef(),
		Items:      []dto.LineItemRequest{line(a, 5), line(b, 2)},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.CodeConflict))

	assert.Equal(t, 5, f.stockOf(a.ID), "decrement of the first line is rolled back")
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.movements)
	assert.Empty(t, f.mailer.jobs)
	assert.Equal(t, 1, f.store.rolledBack)
}

func TestOrderCreate_SequentialNumbersAndDuplicateSubmissions(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Mug", "4.00", 10)
	req := dto.CreateOrderRequest{CustomerID: f.customerRef(), Items: []dto.LineItemRequest{line(p, 1)}}

	first, err := f.orders.Create(context.Background(), nil, req)
	require.NoError(t, err)
	second, err := f.orders.Create(context.Background(), nil, req)
	require.NoError(t, err)

	assert.Equal(t, "ORD-20240115-0001", first.OrderNumber)
	assert.Equal(t, "ORD-20240115-0002", second.OrderNumber)
	assert.NotEqual(t, first.ID, second.ID, "no idempotency: a resubmission is a new order")
	assert.Equal(t, 8, f.stockOf(p.ID))
}

func TestOrderCreate_RetriesAfterNumberCollision(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Mug", "4.00", 10)
	f.store.collisions = 1

	resp, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerID: f.customerRef(),
		Items:      []dto.LineItemRequest{line(p, 2)},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20240115-0002", resp.OrderNumber)
	assert.Len(t, f.store.orders, 1)
	assert.Len(t, f.store.movements, 1, "the rolled back attempt left no ledger row")
	assert.Equal(t, 8, f.stockOf(p.ID))
	assert.Equal(t, 2, f.store.transactions)
}

func TestOrderCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Mug", "4.00", 10)
	f.store.collisions = maxCreateAttempts

	_, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerID: f.customerRef(),
		Items:      []dto.LineItemRequest{line(p, 2)},
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.CodeConflict))
	assert.Empty(t, f.store.orders)
	assert.Equal(t, 10, f.stockOf(p.ID))
}

func createOrder(t *testing.T, f *fixture, items ...dto.LineItemRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := f.orders.Create(context.Background(), nil, dto.CreateOrderRequest{
		CustomerID: f.customerRef(),
		Items:      items,
	})
	require.NoError(t, err)
	return resp
}

func setOrderStatus(t *testing.T, f *fixture, id string, status string) (*dto.OrderResponse, error) {
	t.Helper()
	return f.orders.UpdateStatus(context.Background(), uuid.MustParse(id), nil, dto.UpdateOrderStatusRequest{Status: status})
}

func TestOrderUpdateStatus_Transitions(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Lamp", "30.00", 10)
	o := createOrder(t, f, line(p, 1))

	resp, err := setOrderStatus(t, f, o.ID, model.OrderShipped)
	require.NoError(t, err, "forward steps may be skipped")
	assert.Equal(t, model.OrderShipped, resp.Status)

	_, err = setOrderStatus(t, f, o.ID, model.OrderConfirmed)
	require.Error(t, err)
	apiErr, ok := apierror.From(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeValidation, apiErr.Code)
	assert.Equal(t, "status", apiErr.Fields[0].Field)

	resp, err = setOrderStatus(t, f, o.ID, model.OrderDelivered)
	require.NoError(t, err)
	require.NotNil(t, resp.ActualDeliveryDate)
	assert.True(t, fixedNow.Equal(*resp.ActualDeliveryDate))

	_, err = setOrderStatus(t, f, o.ID, model.OrderCancelled)
	assert.True(t, apierror.Is(err, apierror.CodeValidation), "delivered is final")
	assert.Equal(t, 9, f.stockOf(p.ID))
}

func TestOrderUpdateStatus_DeliveryDateStampedOnce(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Lamp", "30.00", 10)
	o := createOrder(t, f, line(p, 1))

	_, err := setOrderStatus(t, f, o.ID, model.OrderDelivered)
	require.NoError(t, err)

	f.orders.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	resp, err := setOrderStatus(t, f, o.ID, model.OrderDelivered)
	require.NoError(t, err, "same status is a no-op")
	assert.True(t, fixedNow.Equal(*resp.ActualDeliveryDate))
}

func TestOrderUpdateStatus_CancelRestoresStockOnce(t *testing.T) {
	f := newFixture(t)
	x := f.addProduct("X", "5.00", 10)
	y := f.addProduct("Y", "7.00", 10)
	o := createOrder(t, f, line(x, 2), line(y, 1))
	require.Equal(t, 8, f.stockOf(x.ID))

	resp, err := setOrderStatus(t, f, o.ID, model.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, resp.Status)
	assert.Equal(t, 10, f.stockOf(x.ID))
	assert.Equal(t, 10, f.stockOf(y.ID))

	require.NoError(t, f.orders.Remove(context.Background(), uuid.MustParse(o.ID), nil))
	assert.Equal(t, 10, f.stockOf(x.ID), "removing a cancelled order restores nothing more")
	assert.Equal(t, 10, f.stockOf(y.ID))

	restores := 0
	for _, m := range f.store.movements {
		if m.Type == model.MovementOrderRestore {
			restores++
		}
	}
	assert.Equal(t, 2, restores)
}

func TestOrderRemove_RestoresStockUnlessDelivered(t *testing.T) {
	f := newFixture(t)
	x := f.addProduct("X", "5.00", 10)
	y := f.addProduct("Y", "7.00", 10)

	pending := createOrder(t, f, line(x, 2), line(y, 1))
	require.NoError(t, f.orders.Remove(context.Background(), uuid.MustParse(pending.ID), nil))
	assert.Equal(t, 10, f.stockOf(x.ID))
	assert.Equal(t, 10, f.stockOf(y.ID))
	assert.Empty(t, f.store.orders)

	delivered := createOrder(t, f, line(x, 2), line(y, 1))
	_, err := setOrderStatus(t, f, delivered.ID, model.OrderDelivered)
	require.NoError(t, err)
	require.NoError(t, f.orders.Remove(context.Background(), uuid.MustParse(delivered.ID), nil))
	assert.Equal(t, 8, f.stockOf(x.ID), "delivered goods stay out of stock")
	assert.Equal(t, 9, f.stockOf(y.ID))
}

func TestOrderRemove_RestoreFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	x := f.addProduct("X", "5.00", 10)
	y := f.addProduct("Y", "7.00", 10)
	o := createOrder(t, f, line(x, 2), line(y, 1))

	f.store.failLedgerFor = y.ID
	err := f.orders.Remove(context.Background(), uuid.MustParse(o.ID), nil)
	require.Error(t, err)

	assert.Len(t, f.store.orders, 1)
	assert.Equal(t, 8, f.stockOf(x.ID), "partial restoration is rolled back")
	assert.Equal(t, 9, f.stockOf(y.ID))
}

func TestOrderRemove_NotFound(t *testing.T) {
	f := newFixture(t)
	err := f.orders.Remove(context.Background(), uuid.New(), nil)
	assert.True(t, apierror.Is(err, apierror.CodeNotFound))
}

func TestOrderUpdatePaymentStatus_IndependentOfStatus(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Lamp", "30.00", 10)
	o := createOrder(t, f, line(p, 1))

	resp, err := f.orders.UpdatePaymentStatus(context.Background(), uuid.MustParse(o.ID),
		dto.UpdatePaymentStatusRequest{PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, resp.PaymentStatus)
	assert.Equal(t, model.OrderPending, resp.Status)
}

func TestOrderInvoice_RequiresRenderer(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Lamp", "30.00", 10)
	o := createOrder(t, f, line(p, 1))

	_, _, err := f.orders.Invoice(context.Background(), uuid.MustParse(o.ID))
	require.Error(t, err)

	f.orders.invoice = func(o *dto.OrderResponse) ([]byte, error) { return []byte("%PDF-" + o.OrderNumber), nil }
	pdf, name, err := f.orders.Invoice(context.Background(), uuid.MustParse(o.ID))
	require.NoError(t, err)
	assert.Equal(t, "invoice-"+o.OrderNumber+".pdf", name)
	assert.Equal(t, "%PDF-"+o.OrderNumber, string(pdf))
}
