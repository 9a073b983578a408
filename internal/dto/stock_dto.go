package dto

import "time"

// StockMovementFilter is bound from the query string of GET /v1/stock/movements.
type StockMovementFilter struct {
	ProductID   string `form:"productId"`
	Type        string `form:"type"`
	ReferenceID string `form:"referenceId"`
}

type StockMovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName,omitempty"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	StockBefore     int       `json:"stockBefore"`
	StockAfter      int       `json:"stockAfter"`
	Reason          string    `json:"reason"`
	ReferenceType   string    `json:"referenceType"`
	ReferenceID     *string   `json:"referenceId"`
	ReferenceItemID *string   `json:"referenceItemId"`
	CreatedAt       time.Time `json:"createdAt"`
}

type LowStockResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
}
