package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/heatwave-ews/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"date":"2024-05-01"}`),
		Topic:     "raw-weather-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte("dl-safdarjung")},
		},
	}

	r := &Reader{}
	raw := r.mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"date":"2024-05-01"}`, string(raw.Value))
	assert.Equal(t, "raw-weather-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "dl-safdarjung", raw.Headers["station"])
	assert.NotNil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, time.May, 11, 6, 0, 0, 0, time.UTC)
	alert := domain.Alert{
		ID:          "heat-0011223344556677",
		Location:    "Delhi",
		Date:        time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		TmaxC:       46.2,
		RHPercent:   31,
		HeatIndexC:  52.8,
		TriggerKind: domain.RiskSevereHeatwave,
		Source:      domain.SourceHistory,
		ProducedAt:  now,
	}

	msg, err := serializeToMessage(alert)
	require.NoError(t, err)

	assert.Equal(t, []byte(alert.ID), msg.Key)
	assert.Contains(t, string(msg.Value), `"trigger_kind":"Severe Heatwave"`)
	assert.Contains(t, string(msg.Value), `"location":"Delhi"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "trigger_kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("Severe Heatwave"), msg.Headers[0].Value)
	assert.Equal(t, "source", msg.Headers[1].Key)
	assert.Equal(t, []byte("history"), msg.Headers[1].Value)
	assert.Equal(t, "produced_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}
