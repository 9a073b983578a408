package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
)

func ptr[T any](v T) *T { return &v }

func fields(res ValidationResult) []string {
	out := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestCreateOrderRequest_Valid(t *testing.T) {
	req := CreateOrderRequest{
		CustomerID: ptr("6f1c1f8e-5a4e-4d0e-9a53-0b8a3c1f7e21"),
		Items: []LineItemRequest{
			{ProductID: "0b0f6a6c-2d1f-4a55-8d3e-6c7a1f0e9b11", Quantity: 2},
		},
		Tax: ptr(decimal.RequireFromString("1.50")),
	}
	res := req.Validate()
	assert.True(t, res.Valid, res.Errors)
	assert.NoError(t, res.Err())
}

func TestCreateOrderRequest_EmptyItems(t *testing.T) {
	res := CreateOrderRequest{CustomerEmail: ptr("ana@example.com")}.Validate()

	require.False(t, res.Valid)
	assert.Contains(t, fields(res), "items")
	assert.True(t, apierror.Is(res.Err(), apierror.CodeValidation))
}

func TestCreateOrderRequest_CustomerReference(t *testing.T) {
	items := []LineItemRequest{{ProductID: "0b0f6a6c-2d1f-4a55-8d3e-6c7a1f0e9b11", Quantity: 1}}

	missing := CreateOrderRequest{Items: items}.Validate()
	assert.Contains(t, fields(missing), "customerId")

	both := CreateOrderRequest{
		CustomerID:    ptr("6f1c1f8e-5a4e-4d0e-9a53-0b8a3c1f7e21"),
		CustomerEmail: ptr("ana@example.com"),
		Items:         items,
	}.Validate()
	assert.Contains(t, fields(both), "customerId")
}

func TestCreateOrderRequest_ItemRules(t *testing.T) {
	res := CreateOrderRequest{
		CustomerEmail: ptr("ana@example.com"),
		Items: []LineItemRequest{
			{ProductID: "not-a-uuid", Quantity: 0, UnitPrice: ptr(decimal.NewFromInt(-1))},
		},
		Discount:     ptr(decimal.NewFromInt(-5)),
		ShippingCost: ptr(decimal.RequireFromString("1.999")),
	}.Validate()

	require.False(t, res.Valid)
	got := fields(res)
	assert.Contains(t, got, "items[0].productId")
	assert.Contains(t, got, "items[0].quantity")
	assert.Contains(t, got, "items[0].unitPrice")
	assert.Contains(t, got, "discount")
	assert.Contains(t, got, "shippingCost")
}

func TestUpdateOrderStatusRequest_UnknownStatus(t *testing.T) {
	res := UpdateOrderStatusRequest{Status: "lost"}.Validate()
	require.False(t, res.Valid)
	assert.Equal(t, "status", res.Errors[0].Field)
	assert.Contains(t, res.Errors[0].Message, "one of")
}

func TestCreateProductRequest_NegativePrice(t *testing.T) {
	res := CreateProductRequest{
		Name:  "Keyboard",
		SKU:   "KB-001",
		Price: decimal.NewFromInt(-10),
	}.Validate()
	assert.Equal(t, []string{"price"}, fields(res))
}
