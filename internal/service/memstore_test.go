package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"
	"github.com/jeroroldan/admin-panel-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the database. memTransactor snapshots
// it at the start of a transaction and restores the snapshot on error, which
// gives the services the same all-or-nothing behaviour as Postgres.
type memStore struct {
	products  map[uuid.UUID]model.Product
	customers map[uuid.UUID]model.Customer
	orders    map[uuid.UUID]model.Order
	sales     map[uuid.UUID]model.Sale
	movements []model.StockMovement
	sequences map[string]int

	// Outside the snapshot: state owned by "other sessions".
	foreignNumbers []string
	collisions     int
	failLedgerFor  uuid.UUID
	beforeLockHook func(s *memStore)
	transactions   int
	rolledBack     int
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[uuid.UUID]model.Product{},
		customers: map[uuid.UUID]model.Customer{},
		orders:    map[uuid.UUID]model.Order{},
		sales:     map[uuid.UUID]model.Sale{},
		sequences: map[string]int{},
	}
}

type memSnapshot struct {
	products  map[uuid.UUID]model.Product
	customers map[uuid.UUID]model.Customer
	orders    map[uuid.UUID]model.Order
	sales     map[uuid.UUID]model.Sale
	movements []model.StockMovement
	sequences map[string]int
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		products:  cloneMap(s.products),
		customers: cloneMap(s.customers),
		orders:    cloneMap(s.orders),
		sales:     cloneMap(s.sales),
		movements: append([]model.StockMovement(nil), s.movements...),
		sequences: cloneMap(s.sequences),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.products = snap.products
	s.customers = snap.customers
	s.orders = snap.orders
	s.sales = snap.sales
	s.movements = snap.movements
	s.sequences = snap.sequences
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ── Transactor ───────────────────────────────────────────────────────────────

type memTransactor struct{ s *memStore }

func (t memTransactor) WithinTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.s.transactions++
	snap := t.s.snapshot()
	if err := fn(nil); err != nil {
		t.s.restore(snap)
		t.s.rolledBack++
		return err
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type memProducts struct{ s *memStore }

func (r memProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku && p.IsActive {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memProducts) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memProducts) LowStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		if p.IsActive && p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *model.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stock := cur.Stock
	cur = *p
	cur.Stock = stock
	r.s.products[p.ID] = cur
	return nil
}

func (r memProducts) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	r.s.products[id] = p
	return nil
}

func (r memProducts) CreateTx(_ *gorm.DB, p *model.Product) error {
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return uniqueViolation("idx_products_sku")
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r memProducts) LockForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	if hook := r.s.beforeLockHook; hook != nil {
		r.s.beforeLockHook = nil
		hook(r.s)
	}
	return r.FindByIDs(context.Background(), ids)
}

func (r memProducts) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Stock < qty {
		return repository.ErrInsufficientStock
	}
	p.Stock -= qty
	r.s.products[id] = p
	return nil
}

func (r memProducts) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += qty
	r.s.products[id] = p
	return nil
}

// ── Ledger ───────────────────────────────────────────────────────────────────

type memMovements struct{ s *memStore }

func (r memMovements) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ProductID == r.s.failLedgerFor {
		return errors.New("ledger write failed")
	}
	if m.ReferenceItemID != nil {
		for _, existing := range r.s.movements {
			if existing.ReferenceItemID != nil && *existing.ReferenceItemID == *m.ReferenceItemID && existing.Type == m.Type {
				return uniqueViolation("idx_stock_movements_item_type")
			}
		}
	}
	m.CreatedAt = time.Now()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memMovements) List(_ context.Context, q repository.StockMovementQuery) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.s.movements {
		if q.ProductID != nil && m.ProductID != *q.ProductID {
			continue
		}
		if q.Type != "" && m.Type != q.Type {
			continue
		}
		if q.ReferenceID != nil && (m.ReferenceID == nil || *m.ReferenceID != *q.ReferenceID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ── Document sequences ───────────────────────────────────────────────────────

type memSequences struct{ s *memStore }

func (r memSequences) NextTx(_ *gorm.DB, prefix, day string, floor int) (int, error) {
	key := prefix + "|" + day
	next := r.s.sequences[key] + 1
	if floor+1 > next {
		next = floor + 1
	}
	r.s.sequences[key] = next
	return next, nil
}

// latestNumber scans committed numbers of both stores plus the ones held by
// other sessions.
func (s *memStore) latestNumber(_ *gorm.DB, prefix string) (string, error) {
	latest := ""
	consider := func(n string) {
		if !strings.HasPrefix(n, prefix) {
			return
		}
		if len(n) > len(latest) || (len(n) == len(latest) && n > latest) {
			latest = n
		}
	}
	for _, o := range s.orders {
		consider(o.OrderNumber)
	}
	for _, sale := range s.sales {
		consider(sale.SaleNumber)
	}
	for _, n := range s.foreignNumbers {
		consider(n)
	}
	return latest, nil
}

// collide reports a unique violation on the number index the first
// s.collisions times, as if another session had committed that number.
func (s *memStore) collide(number, index string) error {
	if s.collisions == 0 {
		return nil
	}
	s.collisions--
	s.foreignNumbers = append(s.foreignNumbers, number)
	return uniqueViolation(index)
}

// ── Customers ────────────────────────────────────────────────────────────────

type memCustomers struct{ s *memStore }

func (r memCustomers) Create(_ context.Context, c *model.Customer) error {
	r.s.customers[c.ID] = *c
	return nil
}

func (r memCustomers) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok || c.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r memCustomers) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range r.s.customers {
		if !c.DeletedAt.Valid && strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memCustomers) List(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.s.customers {
		if !c.DeletedAt.Valid {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCustomers) Update(_ context.Context, c *model.Customer) error {
	r.s.customers[c.ID] = *c
	return nil
}

func (r memCustomers) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.s.customers[id]
	if !ok || c.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	c.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.s.customers[id] = c
	return nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type memOrders struct{ s *memStore }

func (r memOrders) load(id uuid.UUID) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c, ok := r.s.customers[o.CustomerID]; ok {
		o.Customer = &c
	}
	items := make([]model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			it.Product = &p
		}
		items[i] = it
	}
	o.Items = items
	return &o, nil
}

func (r memOrders) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return r.load(id)
}

func (r memOrders) FindByNumber(_ context.Context, number string) (*model.Order, error) {
	for id, o := range r.s.orders {
		if o.OrderNumber == number {
			return r.load(id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memOrders) List(_ context.Context, q repository.OrderQuery) ([]model.Order, error) {
	var out []model.Order
	for id, o := range r.s.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.CustomerID != nil && o.CustomerID != *q.CustomerID {
			continue
		}
		loaded, _ := r.load(id)
		out = append(out, *loaded)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return out, nil
}

func (r memOrders) CreateTx(_ *gorm.DB, o *model.Order) error {
	if err := r.s.collide(o.OrderNumber, repository.OrderNumberIndex); err != nil {
		return err
	}
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return uniqueViolation(repository.OrderNumberIndex)
		}
	}
	stored := *o
	stored.Customer = nil
	stored.Items = append([]model.OrderItem(nil), o.Items...)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.orders[o.ID] = stored
	return nil
}

func (r memOrders) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.load(id)
}

func (r memOrders) LatestNumberTx(tx *gorm.DB, prefix string) (string, error) {
	return r.s.latestNumber(tx, prefix)
}

func (r memOrders) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	o, ok := r.s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(string)
		case "payment_status":
			o.PaymentStatus = v.(string)
		case "payment_method":
			s := v.(string)
			o.PaymentMethod = &s
		case "notes":
			s := v.(string)
			o.Notes = &s
		case "shipping_address":
			s := v.(string)
			o.ShippingAddress = &s
		case "estimated_delivery_date":
			t := v.(time.Time)
			o.EstimatedDeliveryDate = &t
		case "actual_delivery_date":
			t := v.(time.Time)
			o.ActualDeliveryDate = &t
		case "stock_released_at":
			t := v.(time.Time)
			o.StockReleasedAt = &t
		default:
			panic("memOrders: unexpected field " + k)
		}
	}
	r.s.orders[id] = o
	return nil
}

func (r memOrders) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.s.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.orders, id)
	return nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

type memSales struct{ s *memStore }

func (r memSales) load(id uuid.UUID) (*model.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if c, ok := r.s.customers[sale.CustomerID]; ok {
		sale.Customer = &c
	}
	items := make([]model.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			it.Product = &p
		}
		items[i] = it
	}
	sale.Items = items
	return &sale, nil
}

func (r memSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	return r.load(id)
}

func (r memSales) List(_ context.Context, q repository.SaleQuery) ([]model.Sale, error) {
	var out []model.Sale
	for id, sale := range r.s.sales {
		if q.Status != "" && sale.Status != q.Status {
			continue
		}
		if q.PaymentMethod != "" && sale.PaymentMethod != q.PaymentMethod {
			continue
		}
		loaded, _ := r.load(id)
		out = append(out, *loaded)
	}
	return out, nil
}

func (r memSales) CreateTx(_ *gorm.DB, sale *model.Sale) error {
	if err := r.s.collide(sale.SaleNumber, repository.SaleNumberIndex); err != nil {
		return err
	}
	for _, existing := range r.s.sales {
		if existing.SaleNumber == sale.SaleNumber {
			return uniqueViolation(repository.SaleNumberIndex)
		}
	}
	stored := *sale
	stored.Customer = nil
	stored.Items = append([]model.SaleItem(nil), sale.Items...)
	stored.CreatedAt = time.Now()
	r.s.sales[sale.ID] = stored
	return nil
}

func (r memSales) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.load(id)
}

func (r memSales) LatestNumberTx(tx *gorm.DB, prefix string) (string, error) {
	return r.s.latestNumber(tx, prefix)
}

func (r memSales) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	sale, ok := r.s.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			sale.Status = v.(string)
		case "stock_released_at":
			t := v.(time.Time)
			sale.StockReleasedAt = &t
		default:
			panic("memSales: unexpected field " + k)
		}
	}
	r.s.sales[id] = sale
	return nil
}

func (r memSales) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.s.sales[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.sales, id)
	return nil
}

// ── Email queue ──────────────────────────────────────────────────────────────

type memMailer struct{ jobs []worker.EmailJob }

func (m *memMailer) EnqueueEmail(_ context.Context, job worker.EmailJob) error {
	m.jobs = append(m.jobs, job)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

// fixedNow is a weekday morning far from midnight so the day never rolls.
var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

type fixture struct {
	store    *memStore
	mailer   *memMailer
	stock    StockService
	orders   *orderService
	sales    *saleService
	products ProductService
	customer model.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()
	txr := memTransactor{s: s}
	mailer := &memMailer{}

	stock := NewStockService(txr, memProducts{s}, memMovements{s}, nil)
	orderNumbers := NewNumberGenerator("ORD", memSequences{s}, s.latestNumber)
	orderNumbers.now = func() time.Time { return fixedNow }
	saleNumbers := NewNumberGenerator("SAL", memSequences{s}, s.latestNumber)
	saleNumbers.now = func() time.Time { return fixedNow }

	orders := NewOrderService(txr, memOrders{s}, memCustomers{s}, memProducts{s}, stock, orderNumbers, mailer, nil).(*orderService)
	orders.now = func() time.Time { return fixedNow }
	sales := NewSaleService(txr, memSales{s}, memCustomers{s}, memProducts{s}, stock, saleNumbers).(*saleService)
	sales.now = func() time.Time { return fixedNow }

	customer := model.Customer{ID: uuid.New(), FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", IsActive: true}
	s.customers[customer.ID] = customer

	return &fixture{
		store:    s,
		mailer:   mailer,
		stock:    stock,
		orders:   orders,
		sales:    sales,
		products: NewProductService(txr, memProducts{s}, stock, nil),
		customer: customer,
	}
}

func (f *fixture) addProduct(name, price string, stock int) model.Product {
	p := model.Product{
		ID:       uuid.New(),
		Name:     name,
		SKU:      strings.ToUpper(name) + "-" + uuid.NewString()[:4],
		Category: "general",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	f.store.products[p.ID] = p
	return p
}

func (f *fixture) stockOf(id uuid.UUID) int { return f.store.products[id].Stock }

func line(p model.Product, qty int) dto.LineItemRequest {
	return dto.LineItemRequest{ProductID: p.ID.String(), Quantity: qty}
}

func (f *fixture) customerRef() *string {
	id := f.customer.ID.String()
	return &id
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
