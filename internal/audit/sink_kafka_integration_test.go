//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"medgate/internal/audit"
	"medgate/pkg/domain"
	"medgate/pkg/testutil/containers"
)

func TestKafkaSink_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redpanda := containers.NewRedpandaContainer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const topic = "medgate.notifications.test"
	sink, err := audit.NewKafkaSink(ctx, redpanda.Brokers, topic, nil)
	require.NoError(t, err)
	defer sink.Close()

	pub := audit.NewPublisher(sink, nil)
	pub.Emit(ctx, audit.Event{
		Action:   audit.ActionFundsReleased,
		Actor:    domain.Account("doctor-1"),
		ReportID: domain.ReportID(1),
		Amount:   100,
	})
	require.NoError(t, sink.Flush(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, audit.ActionFundsReleased, got.Action)
	require.Equal(t, domain.Account("doctor-1"), got.Actor)
	require.Equal(t, int64(100), got.Amount)
	require.NotEmpty(t, got.ID)
	require.Equal(t, "doctor-1", string(records[0].Key))
}
