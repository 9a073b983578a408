package dto

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ─── Envelope ────────────────────────────────────────────────────────────────

// Envelope wraps every successful JSON response.
type Envelope struct {
	Data      any       `json:"data"`
	Message   string    `json:"message"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEnvelope wraps every 4xx/5xx JSON response.
type ErrorEnvelope struct {
	Success   bool            `json:"success"`
	Error     *apierror.Error `json:"error"`
	Timestamp time.Time       `json:"timestamp"`
}

// ─── Validation ──────────────────────────────────────────────────────────────

// ValidationResult is returned by every request Validate method.
type ValidationResult struct {
	Valid  bool                  `json:"valid"`
	Errors []apierror.FieldError `json:"errors"`
}

// Add records a field error and marks the result invalid.
func (r *ValidationResult) Add(field, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, apierror.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err converts an invalid result into an *apierror.Error, nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return apierror.NewValidation(r.Errors)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// checkStruct runs the validator tags of s and returns the structured result.
func checkStruct(s any) ValidationResult {
	res := ValidationResult{Valid: true}
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Add("", "%s", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(fieldPath(fe), "%s", tagMessage(fe))
	}
	return res
}

// fieldPath strips the root struct name: "CreateOrderRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " element(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

// checkMoney validates an optional non-negative amount with at most 2 decimals.
func checkMoney(res *ValidationResult, field string, v *decimal.Decimal) {
	if v == nil {
		return
	}
	if v.IsNegative() {
		res.Add(field, "must not be negative")
		return
	}
	if !v.Equal(v.Round(2)) {
		res.Add(field, "must have at most 2 decimal places")
	}
}

// ─── Shared response fragments ───────────────────────────────────────────────

// CustomerSummary is embedded in order and sale responses.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductSummary is the product snapshot embedded in line items.
type ProductSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// LineItemRequest is one requested product line of an order or sale.
type LineItemRequest struct {
	ProductID string           `json:"productId" validate:"required,uuid"`
	Quantity  int              `json:"quantity"  validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// LineItemResponse is one persisted line of an order or sale.
type LineItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"productId"`
	Product    *ProductSummary `json:"product,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// validateCustomerRef enforces exactly one of customerId/customerEmail.
func validateCustomerRef(res *ValidationResult, id, email *string) {
	hasID := id != nil && strings.TrimSpace(*id) != ""
	hasEmail := email != nil && strings.TrimSpace(*email) != ""
	switch {
	case !hasID && !hasEmail:
		res.Add("customerId", "customerId or customerEmail is required")
	case hasID && hasEmail:
		res.Add("customerId", "provide either customerId or customerEmail, not both")
	}
}

func validateLineItems(res *ValidationResult, items []LineItemRequest) {
	if len(items) == 0 {
		res.Add("items", "must contain at least 1 element(s)")
		return
	}
	for i := range items {
		checkMoney(res, fmt.Sprintf("items[%d].unitPrice", i), items[i].UnitPrice)
	}
}
