package infra

// pdf.go renders the A4 order invoice served by GET /v1/orders/:id/invoice:
//   - company header and order number
//   - customer block and shipping address
//   - item table (product, SKU, quantity, unit price, line total)
//   - subtotal, tax, shipping, discount and a bold total

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const invoiceIssuer = "Admin Panel Store"

// RenderOrderInvoice returns the invoice PDF of o as bytes.
func RenderOrderInvoice(o *dto.OrderResponse) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Invoice "+o.OrderNumber, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW/2, 9, tr(invoiceIssuer), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 9, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Order "+o.OrderNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 5, o.CreatedAt.Local().Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Customer ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if o.Customer != nil {
		pdf.CellFormat(contentW, 5, tr(o.Customer.Name), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 5, o.Customer.Email, "", 1, "L", false, 0, "")
	}
	if o.ShippingAddress != nil && *o.ShippingAddress != "" {
		pdf.MultiCell(contentW, 5, tr("Ship to: "+*o.ShippingAddress), "", "L", false)
	}
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Status: %s   Payment: %s", o.Status, o.PaymentStatus), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Items ─────────────────────────────────────────────────────────────────
	widths := []float64{contentW * 0.40, contentW * 0.18, contentW * 0.10, contentW * 0.16, contentW * 0.16}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Product", "SKU", "Qty", "Unit price", "Total"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range o.Items {
		name, sku := it.ProductID, ""
		if it.Product != nil {
			name, sku = it.Product.Name, it.Product.SKU
		}
		pdf.CellFormat(widths[0], 6, tr(truncate(name, 40)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, sku, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, it.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, it.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := contentW - widths[4]
	totalLine := func(label string, v decimal.Decimal) {
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	totalLine("Subtotal", o.Subtotal)
	if !o.Tax.IsZero() {
		totalLine("Tax", o.Tax)
	}
	if !o.ShippingCost.IsZero() {
		totalLine("Shipping", o.ShippingCost)
	}
	if !o.Discount.IsZero() {
		totalLine("Discount", o.Discount.Neg())
	}
	pdf.SetFont("Helvetica", "B", 11)
	totalLine("TOTAL", o.Total)

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Generated "+time.Now().Format(time.RFC1123), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render invoice %s: %w", o.OrderNumber, err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
