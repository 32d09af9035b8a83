//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"cohort/internal/platform/config"
	"cohort/internal/platform/kafka"
	"cohort/pkg/domain"
	"cohort/pkg/platform/audit"
	kafkaaudit "cohort/pkg/platform/audit/store/kafka"
	"cohort/pkg/testutil/containers"
)

func TestNewClientWithoutBrokers(t *testing.T) {
	client, err := kafka.NewClient(config.KafkaConfig{AuditTopic: "cohort.audit"})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestAuditEventsReachTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "cohort.audit." + uuid.NewString()[:8]

	producer, err := kafka.NewClient(config.KafkaConfig{
		Brokers:    []string{broker},
		AuditTopic: topic,
		ClientID:   "cohort-test",
	})
	require.NoError(t, err)
	defer producer.Close()

	require.NoError(t, kafka.Health(ctx, producer))
	require.NoError(t, kafka.EnsureTopic(ctx, producer, topic, 1, 1))
	require.NoError(t, kafka.EnsureTopic(ctx, producer, topic, 1, 1), "existing topic is not an error")

	accountID := domain.AccountID(uuid.New())
	store := kafkaaudit.New(producer, topic)
	require.NoError(t, store.Append(ctx, audit.Event{
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		AccountID: accountID,
		StudyID:   "api",
		Subject:   "pat@example.org",
		Action:    string(audit.EventParticipantDeleted),
		RequestID: "req-1",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var record *kgo.Record
	for record == nil {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err(), "no record before deadline")
		require.Empty(t, fetches.Errors())
		if recs := fetches.Records(); len(recs) > 0 {
			record = recs[0]
		}
	}

	assert.Equal(t, accountID.String(), string(record.Key))
	var body map[string]any
	require.NoError(t, json.Unmarshal(record.Value, &body))
	assert.Equal(t, "participant_deleted", body["action"])
	assert.Equal(t, "compliance", body["category"])
	assert.Equal(t, "req-1", body["request_id"])
}
