// Package kafka forwards audit events to a Kafka topic. Consumers downstream
// materialize them for compliance reporting.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "cohort/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client the store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Store implements audit.Store by producing one JSON record per event.
type Store struct {
	producer Producer
	topic    string
}

// New creates a Kafka-backed audit store.
func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// payload is the record value. Field names are stable for consumers.
type payload struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	AccountID string `json:"account_id,omitempty"`
	StudyID   string `json:"study_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
}

// Append produces the event synchronously. Records are keyed by account so
// one participant's history stays ordered within a partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	body := payload{
		ID:        eventID.String(),
		Category:  string(audit.AuditEvent(event.Action).Category()),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		StudyID:   string(event.StudyID),
		Subject:   event.Subject,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
	}
	key := eventID.String()
	if !event.AccountID.IsNil() {
		body.AccountID = event.AccountID.String()
		key = body.AccountID
	}

	value, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(body.Category)},
			{Key: "action", Value: []byte(body.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
