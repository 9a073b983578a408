package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderInvoice(t *testing.T) {
	addr := "221B Baker Street"
	o := &dto.OrderResponse{
		OrderNumber:     "ORD-20240115-0001",
		Customer:        &dto.CustomerSummary{Name: "Ana Gómez", Email: "ana@example.com"},
		Status:          "pending",
		PaymentStatus:   "pending",
		ShippingAddress: &addr,
		Subtotal:        decimal.RequireFromString("30.00"),
		Tax:             decimal.RequireFromString("3.00"),
		ShippingCost:    decimal.RequireFromString("5.00"),
		Discount:        decimal.RequireFromString("2.00"),
		Total:           decimal.RequireFromString("36.00"),
		Items: []dto.LineItemResponse{{
			ProductID:  "p1",
			Product:    &dto.ProductSummary{Name: "Mechanical keyboard with a very long descriptive name", SKU: "KB-1"},
			Quantity:   3,
			UnitPrice:  decimal.RequireFromString("10.00"),
			TotalPrice: decimal.RequireFromString("30.00"),
		}},
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	out, err := RenderOrderInvoice(o)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
