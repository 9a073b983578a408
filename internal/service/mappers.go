package service

import (
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		CostPrice:   p.CostPrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		IsActive:    p.IsActive,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func movementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	resp := dto.StockMovementResponse{
		ID:              m.ID.String(),
		ProductID:       m.ProductID.String(),
		Type:            m.Type,
		Quantity:        m.Quantity,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		Reason:          m.Reason,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     optionalID(m.ReferenceID),
		ReferenceItemID: optionalID(m.ReferenceItemID),
		CreatedAt:       m.CreatedAt,
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	return resp
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		Country:   c.Country,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func customerSummary(c *model.Customer) *dto.CustomerSummary {
	if c == nil {
		return nil
	}
	return &dto.CustomerSummary{ID: c.ID.String(), Name: c.FullName(), Email: c.Email}
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func lineItemToResponse(id, productID uuid.UUID, p *model.Product, qty int, unit, total decimal.Decimal) dto.LineItemResponse {
	item := dto.LineItemResponse{
		ID:         id.String(),
		ProductID:  productID.String(),
		Quantity:   qty,
		UnitPrice:  unit,
		TotalPrice: total,
	}
	if p != nil {
		item.Product = &dto.ProductSummary{ID: p.ID.String(), Name: p.Name, SKU: p.SKU}
	}
	return item
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:                    o.ID.String(),
		OrderNumber:           o.OrderNumber,
		CustomerID:            o.CustomerID.String(),
		Customer:              customerSummary(o.Customer),
		Status:                o.Status,
		PaymentStatus:         o.PaymentStatus,
		PaymentMethod:         o.PaymentMethod,
		Subtotal:              o.Subtotal,
		Tax:                   o.Tax,
		Discount:              o.Discount,
		ShippingCost:          o.ShippingCost,
		Total:                 o.Total,
		Notes:                 o.Notes,
		ShippingAddress:       o.ShippingAddress,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		ActualDeliveryDate:    o.ActualDeliveryDate,
		ProcessedByID:         optionalID(o.ProcessedByID),
		Items:                 make([]dto.LineItemResponse, len(o.Items)),
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
	for i, it := range o.Items {
		resp.Items[i] = lineItemToResponse(it.ID, it.ProductID, it.Product, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	return resp
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		SaleNumber:    s.SaleNumber,
		CustomerID:    s.CustomerID.String(),
		Customer:      customerSummary(s.Customer),
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Amount:        s.Amount,
		SaleDate:      s.SaleDate,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		ProcessedByID: optionalID(s.ProcessedByID),
		Items:         make([]dto.LineItemResponse, len(s.Items)),
		CreatedAt:     s.CreatedAt,
	}
	for i, it := range s.Items {
		resp.Items[i] = lineItemToResponse(it.ID, it.ProductID, it.Product, it.Quantity, it.UnitPrice, it.TotalPrice)
	}
	return resp
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
