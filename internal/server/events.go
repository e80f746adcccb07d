package server

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/models"
)

// NATS subjects for console events
const (
	SubjectAuthLogin      = "console.auth.login"
	SubjectAuthSignup     = "console.auth.signup"
	SubjectAuthLogout     = "console.auth.logout"
	SubjectAuthDenied     = "console.auth.denied"
	SubjectBrandChanged   = "console.brand.changed"
	SubjectTenantResolved = "console.tenant.resolved"
)

// Conn is the subset of the NATS connection the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher publishes console events to NATS. A nil Publisher is a
// no-op, so callers never have to branch on standalone mode.
type Publisher struct {
	nc Conn
}

// NewPublisher creates an event publisher
func NewPublisher(nc Conn) *Publisher {
	return &Publisher{nc: nc}
}

// Publish publishes an audit event on the given subject. Publishing is
// best-effort: a failed publish is logged, never returned, because no
// identity operation should fail on a telemetry path.
func (p *Publisher) Publish(subject string, event *models.AuditEvent) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal event")
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}
