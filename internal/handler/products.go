package handler

import (
	"net/http"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/middleware"
	"github.com/jeroroldan/admin-panel-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	svc   service.ProductService
	stock service.StockService
}

func NewProductsHandler(svc service.ProductService, stock service.StockService) *ProductsHandler {
	return &ProductsHandler{svc: svc, stock: stock}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, resp, "product created")
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp, "product updated")
}

func (h *ProductsHandler) Deactivate(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "product deactivated")
}

// AdjustStock books a manual adjustment in the stock ledger.
func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.stock.Adjust(c.Request.Context(), id, middleware.ActorID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp, "stock adjusted")
}

func (h *ProductsHandler) LowStock(c *gin.Context) {
	resp, err := h.stock.LowStock(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// LookupBySKU is the public price check. No authentication, no side effects.
func (h *ProductsHandler) LookupBySKU(c *gin.Context) {
	resp, err := h.svc.LookupBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

func (h *ProductsHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.stock.ListMovements(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}
