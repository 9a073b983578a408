package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxCreateAttempts bounds the retries after a document number collision.
const maxCreateAttempts = 3

// pricedLine is one requested line resolved against its product.
type pricedLine struct {
	itemID    uuid.UUID
	product   model.Product
	quantity  int
	unitPrice decimal.Decimal
	total     decimal.Decimal
}

// stockLine is the part of a persisted line item the ledger needs.
type stockLine struct {
	itemID    uuid.UUID
	productID uuid.UUID
	quantity  int
}

// resolveCustomer looks the customer up by id or by email. Soft-deleted
// customers are invisible to the repository and therefore not found.
func resolveCustomer(ctx context.Context, repo repository.CustomerRepository, id, email *string) (*model.Customer, error) {
	if id != nil && *id != "" {
		cid, err := parseID("customerId", *id)
		if err != nil {
			return nil, err
		}
		c, err := repo.FindByID(ctx, cid)
		if err != nil {
			return nil, notFoundOr(err, "customer", cid)
		}
		return c, nil
	}
	if email == nil || *email == "" {
		return nil, apierror.Validation("customerId or customerEmail is required")
	}
	c, err := repo.FindByEmail(ctx, *email)
	if err != nil {
		return nil, notFoundOr(err, "customer", *email)
	}
	return c, nil
}

// priceLines checks every requested line against its product before anything
// is written: missing product is NotFound, inactive is Validation, and a
// quantity above stock is Conflict. Lines naming the same product are summed
// for the stock check.
func priceLines(ctx context.Context, repo repository.ProductRepository, items []dto.LineItemRequest) ([]pricedLine, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, apierror.Validation("at least one item is required")
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		id, err := parseID(fmt.Sprintf("items[%d].productId", i), item.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		ids[i] = id
	}

	found, err := repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uuid.UUID]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	requested := make(map[uuid.UUID]int, len(ids))
	lines := make([]pricedLine, 0, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, decimal.Zero, apierror.NotFound("product %s not found", ids[i])
		}
		if !p.IsActive {
			return nil, decimal.Zero, apierror.NewValidation([]apierror.FieldError{{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: fmt.Sprintf("product %s is inactive", p.Name),
			}})
		}
		if item.Quantity < 1 {
			return nil, decimal.Zero, apierror.NewValidation([]apierror.FieldError{{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be at least 1",
			}})
		}
		requested[p.ID] += item.Quantity
		if p.Stock < requested[p.ID] {
			return nil, decimal.Zero, apierror.Conflict(
				"insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, requested[p.ID])
		}

		unit := p.Price
		if item.UnitPrice != nil {
			unit = item.UnitPrice.Round(2)
		}
		total := unit.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(total)
		lines = append(lines, pricedLine{
			itemID:    uuid.New(),
			product:   p,
			quantity:  item.Quantity,
			unitPrice: unit,
			total:     total,
		})
	}
	return lines, subtotal, nil
}

// money returns v rounded to cents, or zero when v is absent.
func money(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return v.Round(2)
}

// grandTotal is subtotal + tax + shipping - discount. A negative amount
// anywhere is rejected.
func grandTotal(subtotal, tax, shipping, discount decimal.Decimal) (decimal.Decimal, error) {
	var fields []apierror.FieldError
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{{"tax", tax}, {"shippingCost", shipping}, {"discount", discount}} {
		if f.value.IsNegative() {
			fields = append(fields, apierror.FieldError{Field: f.name, Message: "must not be negative"})
		}
	}
	if len(fields) > 0 {
		return decimal.Zero, apierror.NewValidation(fields)
	}
	total := subtotal.Add(tax).Add(shipping).Sub(discount).Round(2)
	if total.IsNegative() {
		return decimal.Zero, apierror.NewValidation([]apierror.FieldError{{
			Field: "discount", Message: "must not exceed subtotal plus tax and shipping",
		}})
	}
	return total, nil
}

// reserveStockTx locks every product of the document in id order, then
// decrements each line. The guarded decrement is the authoritative check;
// the pre-flight one in priceLines ran without locks.
func reserveStockTx(tx *gorm.DB, stock StockService, lines []pricedLine, adj StockAdjustment) error {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.product.ID
	}
	if _, err := stock.LockTx(tx, uniqueIDs(ids)); err != nil {
		return err
	}
	for _, l := range lines {
		itemID := l.itemID
		a := adj
		a.ProductID = l.product.ID
		a.Quantity = l.quantity
		a.ReferenceItemID = &itemID
		if err := stock.DecrementTx(tx, a); err != nil {
			return err
		}
	}
	return nil
}

// releaseStockTx gives every line quantity back to the ledger.
func releaseStockTx(tx *gorm.DB, stock StockService, lines []stockLine, adj StockAdjustment) error {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.productID
	}
	if _, err := stock.LockTx(tx, uniqueIDs(ids)); err != nil {
		return err
	}
	for _, l := range lines {
		itemID := l.itemID
		a := adj
		a.ProductID = l.productID
		a.Quantity = l.quantity
		a.ReferenceItemID = &itemID
		if err := stock.IncrementTx(tx, a); err != nil {
			return err
		}
	}
	return nil
}

// createWithRetry runs fn in a fresh transaction, again when the only
// failure was a collision on the document number index.
func createWithRetry(ctx context.Context, txr repository.Transactor, numberIndex string, fn func(tx *gorm.DB) error) error {
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err := txr.WithinTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !repository.IsUniqueViolation(err) || repository.ViolatedConstraint(err) != numberIndex {
			return err
		}
		log.Warn().Int("attempt", attempt).Str("index", numberIndex).Msg("document number collision, retrying")
	}
	return apierror.Conflict("could not allocate a document number after %d attempts", maxCreateAttempts)
}

// dayRange parses inclusive YYYY-MM-DD bounds into [from, to) instants in
// server-local time.
func dayRange(from, to string) (*time.Time, *time.Time, error) {
	var res dto.ValidationResult
	res.Valid = true
	var start, end *time.Time
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, time.Local)
		if err != nil {
			res.Add("from", "must be a date formatted YYYY-MM-DD")
		} else {
			start = &t
		}
	}
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, time.Local)
		if err != nil {
			res.Add("to", "must be a date formatted YYYY-MM-DD")
		} else {
			next := t.AddDate(0, 0, 1)
			end = &next
		}
	}
	if err := res.Err(); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// restoreError keeps a typed failure readable for the caller as a Conflict;
// infrastructure errors stay wrapped and end up as a 500.
func restoreError(kind, number string, err error) error {
	if apiErr, ok := apierror.From(err); ok {
		return apierror.Conflict("stock of %s %s could not be restored: %s", kind, number, apiErr.Message)
	}
	return fmt.Errorf("restore stock of %s %s: %w", kind, number, err)
}
