package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/storage"
)

// AuditSubscriber consumes console events from NATS and persists them
// as the audit trail
type AuditSubscriber struct {
	nc    *nats.Conn
	store storage.Store
	subs  []*nats.Subscription
}

// NewAuditSubscriber creates an audit subscriber
func NewAuditSubscriber(nc *nats.Conn, store storage.Store) *AuditSubscriber {
	return &AuditSubscriber{
		nc:    nc,
		store: store,
		subs:  make([]*nats.Subscription, 0),
	}
}

// Start starts subscriptions and blocks until the context is cancelled
func (s *AuditSubscriber) Start(ctx context.Context) error {
	sub, err := s.nc.Subscribe("console.>", s.handleEvent)
	if err != nil {
		return fmt.Errorf("subscribe console events: %w", err)
	}
	s.subs = append(s.subs, sub)

	log.Info().
		Int("subscriptions", len(s.subs)).
		Msg("Audit subscriber started")

	<-ctx.Done()

	for _, sub := range s.subs {
		sub.Unsubscribe()
	}

	return ctx.Err()
}

// handleEvent persists one console event
func (s *AuditSubscriber) handleEvent(msg *nats.Msg) {
	var event models.AuditEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed console event")
		return
	}

	if err := s.store.CreateAuditEvent(context.Background(), &event); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to persist audit event")
		return
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("type", string(event.Type)).
		Msg("Audit event persisted")
}
