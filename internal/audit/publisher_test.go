package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/pkg/domain"
	"medgate/pkg/requestcontext"
)

func TestSinkPublisher_FinalizesEvents(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, nil)

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.7", "Firefox")

	pub.Emit(ctx, Event{
		Action:   ActionRecordRequested,
		Actor:    domain.Account("patient-1"),
		ReportID: domain.ReportID(1),
		Amount:   100,
	})

	events := store.Events()
	require.Len(t, events, 1)
	got := events[0]
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, CategoryOperations, got.Category)
	assert.Equal(t, "req-42", got.RequestID)
	assert.Equal(t, "10.0.0.7", got.ClientIP)
	assert.Equal(t, "Firefox", got.UserAgent)
}

func TestSinkPublisher_CategoryByAction(t *testing.T) {
	assert.Equal(t, CategoryCompliance, CategoryOf(ActionActorAdded))
	assert.Equal(t, CategoryCompliance, CategoryOf(ActionFundsReleased))
	assert.Equal(t, CategoryOperations, CategoryOf(ActionRecordFulfilled))
}

func TestChannelPublisher_DrainsThroughWorker(t *testing.T) {
	store := NewInMemoryStore()
	pub, worker := NewChannelPublisher(store, 16, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		pub.Emit(context.Background(), Event{Action: ActionActorAdded, Actor: domain.Account("admin-1")})
	}

	require.Eventually(t, func() bool {
		return len(store.Events()) == 5
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestChannelPublisher_DropsOnOverflow(t *testing.T) {
	store := NewInMemoryStore()
	// Capacity 1 and no running worker: the second emit must drop, not block.
	pub, _ := NewChannelPublisher(store, 1, nil)

	doneCh := make(chan struct{})
	go func() {
		pub.Emit(context.Background(), Event{Action: ActionActorAdded})
		pub.Emit(context.Background(), Event{Action: ActionActorAdded})
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox; it must drop instead")
	}
}
