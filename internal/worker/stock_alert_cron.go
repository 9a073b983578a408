package worker

// stock_alert_cron.go
// Background goroutine that periodically scans for products at or below
// their minimum stock and emails one alert per product per day.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const alertKeyTTL = 36 * time.Hour

// LowStockSource lists active products with stock <= min_stock.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]model.Product, error)
}

// EmailQueue accepts email jobs. *Dispatcher satisfies it.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, job EmailJob) error
}

// AlertGate grants a key once. The first Claim returns true, later ones false.
type AlertGate interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// RedisGate implements AlertGate with SETNX.
type RedisGate struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGate(rdb *redis.Client) *RedisGate {
	return &RedisGate{rdb: rdb, ttl: alertKeyTTL}
}

func (g *RedisGate) Claim(ctx context.Context, key string) (bool, error) {
	return g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
}

type StockAlerter struct {
	source    LowStockSource
	queue     EmailQueue
	gate      AlertGate
	recipient string
	now       func() time.Time
}

func NewStockAlerter(source LowStockSource, queue EmailQueue, gate AlertGate, recipient string) *StockAlerter {
	return &StockAlerter{source: source, queue: queue, gate: gate, recipient: recipient, now: time.Now}
}

// Start ticks every interval until ctx is cancelled. A zero interval or an
// empty recipient disables the alerter.
func (a *StockAlerter) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 || a.recipient == "" {
		log.Info().Msg("stock_alert: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("stock_alert: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_alert: shutting down")
				return
			case <-ticker.C:
				if _, err := a.Scan(ctx); err != nil {
					log.Error().Err(err).Msg("stock_alert: scan failed")
				}
			}
		}
	}()
}

// Scan queues a single digest email covering every low-stock product not yet
// reported today and returns how many products it covered.
func (a *StockAlerter) Scan(ctx context.Context) (int, error) {
	products, err := a.source.LowStock(ctx)
	if err != nil {
		return 0, err
	}
	day := a.now().Format("20060102")

	var fresh []model.Product
	for _, p := range products {
		ok, err := a.gate.Claim(ctx, fmt.Sprintf("stock_alert:%s:%s", p.ID, day))
		if err != nil {
			return 0, err
		}
		if ok {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	var body strings.Builder
	body.WriteString("The following products are at or below their minimum stock:\n\n")
	for _, p := range fresh {
		fmt.Fprintf(&body, "  %s (%s): %d on hand, minimum %d\n", p.Name, p.SKU, p.Stock, p.MinStock)
	}

	job := EmailJob{
		Kind:    EmailLowStockAlert,
		To:      a.recipient,
		Subject: fmt.Sprintf("Low stock: %d product(s)", len(fresh)),
		Body:    body.String(),
	}
	if err := a.queue.EnqueueEmail(ctx, job); err != nil {
		return 0, err
	}
	log.Info().Int("products", len(fresh)).Msg("stock_alert: alert queued")
	return len(fresh), nil
}
