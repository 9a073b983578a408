package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet = "Orders"
	salesSheet  = "Sales"
)

var (
	orderHeader = []any{"Number", "Date", "Customer", "Status", "Payment", "Subtotal", "Tax", "Discount", "Shipping", "Total"}
	saleHeader  = []any{"Number", "Date", "Customer", "Status", "Method", "Subtotal", "Tax", "Discount", "Amount"}
)

type ReportService interface {
	// Export builds a workbook with one sheet of orders and one of sales.
	Export(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
}

type reportService struct {
	orders repository.OrderRepository
	sales  repository.SaleRepository
}

func NewReportService(orders repository.OrderRepository, sales repository.SaleRepository) ReportService {
	return &reportService{orders: orders, sales: sales}
}

func (s *reportService) Export(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	from, to, err := dayRange(filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, repository.OrderQuery{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	sales, err := s.sales.List(ctx, repository.SaleQuery{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	orderRows := make([][]any, len(orders))
	for i, o := range orders {
		orderRows[i] = []any{
			o.OrderNumber, o.CreatedAt.Format(time.DateTime), customerName(o.Customer), o.Status, o.PaymentStatus,
			o.Subtotal.InexactFloat64(), o.Tax.InexactFloat64(), o.Discount.InexactFloat64(),
			o.ShippingCost.InexactFloat64(), o.Total.InexactFloat64(),
		}
	}
	if err := writeSheet(f, ordersSheet, bold, orderHeader, orderRows); err != nil {
		return nil, err
	}

	saleRows := make([][]any, len(sales))
	for i, sl := range sales {
		saleRows[i] = []any{
			sl.SaleNumber, sl.SaleDate.Format(time.DateTime), customerName(sl.Customer), sl.Status, sl.PaymentMethod,
			sl.Subtotal.InexactFloat64(), sl.Tax.InexactFloat64(), sl.Discount.InexactFloat64(), sl.Amount.InexactFloat64(),
		}
	}
	if err := writeSheet(f, salesSheet, bold, saleHeader, saleRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func customerName(c *model.Customer) string {
	if c == nil {
		return ""
	}
	return c.FullName()
}
