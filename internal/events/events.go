// Package events publishes account lifecycle events to RabbitMQ.
//
// Publishing is best effort: the services log a failed publish and carry on,
// so the broker is never on the critical path of a request.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-study-platform/models"
)

//go:generate mockgen -source=events.go -destination=../mock/events_mock.go -package=mock

// Type names an account event.
type Type string

const (
	AccountRegistered    Type = "account.registered"
	AccountRoleChanged   Type = "account.role_changed"
	AccountStatusChanged Type = "account.status_changed"
)

// Event is the JSON body of a published message.
// It never carries secrets or tokens.
type Event struct {
	ID         string               `json:"id"`
	Type       Type                 `json:"type"`
	AccountID  string               `json:"account_id"`
	Role       models.Role          `json:"role"`
	Status     models.AccountStatus `json:"status"`
	ActorID    string               `json:"actor_id,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewAccountEvent builds an event of type t describing account.
// actorID is the administrator who made the change, if any.
func NewAccountEvent(t Type, account models.Account, actorID string) Event {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return Event{
		ID:         id.String(),
		Type:       t,
		AccountID:  account.ID,
		Role:       account.Role,
		Status:     account.Status,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers account events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type nopPublisher struct{}

// NewNopPublisher returns a [Publisher] that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
