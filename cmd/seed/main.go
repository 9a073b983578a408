// cmd/seed creates or refreshes the admin user and loads a small demo catalogue.
// Safe to run repeatedly: existing rows are kept.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/config"
	"github.com/jeroroldan/admin-panel-sub001/internal/dto"
	"github.com/jeroroldan/admin-panel-sub001/internal/infra"
	"github.com/jeroroldan/admin-panel-sub001/internal/model"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"
	"github.com/jeroroldan/admin-panel-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "admin12345", "admin password (min 8 chars)")
	demo := flag.Bool("demo", true, "load demo products and customers")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	ctx := context.Background()

	auth := service.NewAuthService(repository.NewUserRepository(db), cfg)
	if err := upsertAdmin(ctx, auth, *email, *password); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}
	if !*demo {
		return
	}

	tx := repository.NewTransactor(db)
	products := repository.NewProductRepository(db)
	stock := service.NewStockService(tx, products, repository.NewStockMovementRepository(db), nil)
	productSvc := service.NewProductService(tx, products, stock, nil)
	customerSvc := service.NewCustomerService(repository.NewCustomerRepository(db))

	for _, p := range demoProducts() {
		_, err := productSvc.Create(ctx, nil, p)
		report("product", p.SKU, err)
	}
	for _, c := range demoCustomers() {
		_, err := customerSvc.Create(ctx, c)
		report("customer", c.Email, err)
	}
}

// upsertAdmin creates the admin, or resets the password, role and active flag
// of an existing account with the same email.
func upsertAdmin(ctx context.Context, auth service.AuthService, email, password string) error {
	users, err := auth.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return err
		}
		role, active := model.RoleAdmin, true
		_, err = auth.UpdateUser(ctx, id, dto.UpdateUserRequest{Password: &password, Role: &role, IsActive: &active})
		if err == nil {
			log.Info().Str("email", email).Msg("admin refreshed")
		}
		return err
	}

	_, err = auth.CreateUser(ctx, dto.CreateUserRequest{
		Email:     email,
		FirstName: "Admin",
		LastName:  "User",
		Password:  password,
		Role:      model.RoleAdmin,
	})
	if err == nil {
		log.Info().Str("email", email).Msg("admin created")
	}
	return err
}

func report(kind, key string, err error) {
	switch {
	case err == nil:
		log.Info().Str(kind, key).Msg("seeded")
	case apierror.Is(err, apierror.CodeConflict):
		log.Debug().Str(kind, key).Msg("already present")
	default:
		log.Error().Err(err).Str(kind, key).Msg("seed failed")
	}
}

func demoProducts() []dto.CreateProductRequest {
	p := func(name, sku, category, price, cost string, stock, min int) dto.CreateProductRequest {
		return dto.CreateProductRequest{
			Name:      name,
			SKU:       sku,
			Category:  category,
			Price:     decimal.RequireFromString(price),
			CostPrice: decimal.RequireFromString(cost),
			Stock:     stock,
			MinStock:  min,
		}
	}
	return []dto.CreateProductRequest{
		p("Wireless Mouse", "MOU-001", "peripherals", "24.90", "12.00", 40, 5),
		p("Mechanical Keyboard", "KEY-001", "peripherals", "89.00", "51.50", 15, 3),
		p("27in Monitor", "MON-027", "displays", "249.99", "180.00", 6, 2),
		p("USB-C Hub", "HUB-007", "accessories", "39.50", "18.20", 25, 5),
		p("Laptop Stand", "STD-002", "accessories", "32.00", "14.75", 2, 4),
	}
}

func demoCustomers() []dto.CreateCustomerRequest {
	city, country := "Madrid", "Spain"
	return []dto.CreateCustomerRequest{
		{FirstName: "Lucia", LastName: "Moreno", Email: "lucia.moreno@example.com", City: &city, Country: &country},
		{FirstName: "Daniel", LastName: "Ortiz", Email: "daniel.ortiz@example.com", City: &city, Country: &country},
	}
}
