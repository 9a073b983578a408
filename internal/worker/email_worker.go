package worker

// email_worker.go
// Processes email jobs from QueueEmail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeroroldan/admin-panel-sub001/internal/infra"

	"github.com/rs/zerolog/log"
)

const JobTypeEmail = "email"

// Email kinds.
const (
	EmailOrderConfirmation = "order_confirmation"
	EmailLowStockAlert     = "low_stock_alert"
)

// EmailJob is the payload sent to QueueEmail.
type EmailJob struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailSender delivers a single message. *infra.Mailer satisfies it.
type EmailSender interface {
	Send(msg infra.Message) error
}

type EmailWorker struct {
	sender EmailSender
}

func NewEmailWorker(sender EmailSender) *EmailWorker {
	return &EmailWorker{sender: sender}
}

// Process sends one email. Malformed payloads and a disabled mailer are
// dropped without retry; delivery failures are returned so the pool retries.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if job.To == "" {
		log.Warn().Str("kind", job.Kind).Msg("email_worker: empty recipient, skipping")
		return nil
	}

	err := w.sender.Send(infra.Message{
		To:      []string{job.To},
		Subject: job.Subject,
		Body:    job.Body,
	})
	switch {
	case errors.Is(err, infra.ErrMailDisabled):
		log.Debug().Str("to", job.To).Str("kind", job.Kind).Msg("email_worker: smtp not configured, dropped")
		return nil
	case err != nil:
		return fmt.Errorf("send %s to %s: %w", job.Kind, job.To, err)
	}
	log.Info().Str("to", job.To).Str("kind", job.Kind).Msg("email_worker: sent")
	return nil
}
