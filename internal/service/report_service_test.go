package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportExport_Workbook(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct("Mouse", "10.00", 10)
	order := createOrder(t, f, line(p, 2))
	sale := createSale(t, f, model.SaleCompleted, line(p, 1))

	raw, err := NewReportService(memOrders{f.store}, memSales{f.store}).Export(context.Background(), dto.ReportFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"Orders", "Sales"}, wb.GetSheetList())

	orderRows, err := wb.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, orderRows, 2)
	assert.Equal(t, "Number", orderRows[0][0])
	assert.Equal(t, order.OrderNumber, orderRows[1][0])
	assert.Equal(t, "Ana Lopez", orderRows[1][2])

	saleRows, err := wb.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, saleRows, 2)
	assert.Equal(t, sale.SaleNumber, saleRows[1][0])
}

func TestReportExport_BadRange(t *testing.T) {
	f := newFixture(t)
	_, err := NewReportService(memOrders{f.store}, memSales{f.store}).Export(context.Background(), dto.ReportFilter{From: "15/01/2024"})
	assert.True(t, apierror.Is(err, apierror.CodeValidation))
}
