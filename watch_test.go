package flint_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/mock"
	"github.com/flintsearch/flint/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"time"
)

func receiveEvent(t *testing.T, sink <-chan flint.IndexEvent) flint.IndexEvent {
	select {
	case event := <-sink:
		return event
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for an index event")
		return flint.IndexEvent{}
	}
}

func TestWatchIndexes(t *testing.T) {
	ctx, cancel := context.WithCancel(test.Context(t))
	defer cancel()

	service := mock.New()
	server := httptest.NewServer(service.Handler())
	t.Cleanup(server.Close)
	client := flint.New(server.URL)

	sink := make(chan flint.IndexEvent, 16)
	done := make(chan error, 1)
	go func() {
		done <- client.WatchIndexes(ctx, sink)
	}()

	require.Eventually(t, func() bool {
		return service.EventSubscribers() > 0
	}, 10*time.Second, 10*time.Millisecond)

	_, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)

	event := receiveEvent(t, sink)
	assert.Equal(t, flint.IndexCreated, event.Type)
	assert.Equal(t, "movies", event.UID)
	assert.False(t, event.Timestamp.IsZero())

	require.NoError(t, client.DeleteIndex(ctx, "movies"))
	event = receiveEvent(t, sink)
	assert.Equal(t, flint.IndexDeleted, event.Type)
	assert.Equal(t, "movies", event.UID)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("watcher did not stop after context cancelation")
	}
}
