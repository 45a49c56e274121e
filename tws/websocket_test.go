package tws

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/flintsearch/flint/test"
	"github.com/flintsearch/flint/thttp"
	"github.com/flintsearch/flint/tnet"
	"github.com/ridge/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPair(t *testing.T, server, client SessionFn) error {
	ctx := test.Context(t)

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		l := tnet.ListenOnRandomPort()
		httpServer := thttp.NewServer(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Serve(w, r, DefaultConfig, server)
		}))

		spawn("server", parallel.Fail, httpServer.Run)
		spawn("client", parallel.Exit, func(ctx context.Context) error {
			return Dial(ctx, "ws://"+l.Addr().String(), nil, DefaultConfig, client)
		})
		return nil
	})
}

func receive(ctx context.Context, t *testing.T, incoming <-chan Message, expected string) {
	select {
	case <-ctx.Done():
		t.Errorf("context closed while waiting for %q", expected)
	case msg, ok := <-incoming:
		require.True(t, ok, "channel closed while waiting for %q", expected)
		assert.Equal(t, expected, string(msg.Data))
	}
}

func TestConnectionClosedByClient(t *testing.T) {
	require.NoError(t, testPair(t, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		select {
		case <-ctx.Done():
			return errors.New("context closed too early")
		case _, ok := <-incoming:
			if ok {
				return errors.New("unexpected message received")
			}
			return nil
		}
	}, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		return nil
	}))
}

func TestConnectionClosedByServer(t *testing.T) {
	require.NoError(t, testPair(t, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		return nil
	}, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		select {
		case <-ctx.Done():
			return errors.New("context closed too early")
		case _, ok := <-incoming:
			if ok {
				return errors.New("unexpected message received")
			}
			return nil
		}
	}))
}

func TestCommunication(t *testing.T) {
	require.NoError(t, testPair(t, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		outgoing <- Message{Data: []byte("a")}
		receive(ctx, t, incoming, "b")
		outgoing <- Message{Data: []byte("c")}
		receive(ctx, t, incoming, "d")
		return nil
	}, func(ctx context.Context, incoming <-chan Message, outgoing chan<- Message) error {
		receive(ctx, t, incoming, "a")
		outgoing <- Message{Data: []byte("b")}
		receive(ctx, t, incoming, "c")
		outgoing <- Message{Data: []byte("d")}
		return nil
	}))
}
