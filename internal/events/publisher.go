package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects published by this service.
const (
	SubjectImportCompleted  = "merch.import.completed"
	SubjectPlanogramCreated = "merch.planogram.created"
)

// Publisher emits domain events over NATS. A nil *Publisher is valid and
// publishes nothing, so callers never have to guard for a disabled event bus.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Logger
}

// ImportCompletedEvent is emitted after an import session's records are
// persisted.
type ImportCompletedEvent struct {
	Entity    string    `json:"entity"`
	SessionID string    `json:"session_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// PlanogramCreatedEvent is emitted after a composite planogram create.
type PlanogramCreatedEvent struct {
	PlanogramID    string    `json:"planogram_id"`
	MagasinID      string    `json:"magasin_id"`
	FurnitureCount int       `json:"furniture_count"`
	PositionCount  int       `json:"position_count"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewPublisher connects to NATS at the given URL.
func NewPublisher(url string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, logger: logger}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Drain()
}

func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithField("subject", subject).WithError(err).Warn("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithField("subject", subject).WithError(err).Warn("Failed to publish event")
	}
}

// PublishImportCompleted emits an import-completed event. Errors are logged,
// never surfaced: event delivery must not fail the import.
func (p *Publisher) PublishImportCompleted(entity, sessionID string, count int) {
	p.publish(SubjectImportCompleted, ImportCompletedEvent{
		Entity:    entity,
		SessionID: sessionID,
		Count:     count,
		Timestamp: time.Now().UTC(),
	})
}

// PublishPlanogramCreated emits a planogram-created event.
func (p *Publisher) PublishPlanogramCreated(planogramID, magasinID string, furnitureCount, positionCount int) {
	p.publish(SubjectPlanogramCreated, PlanogramCreatedEvent{
		PlanogramID:    planogramID,
		MagasinID:      magasinID,
		FurnitureCount: furnitureCount,
		PositionCount:  positionCount,
		Timestamp:      time.Now().UTC(),
	})
}
