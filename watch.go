package flint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flintsearch/flint/retry"
	"github.com/flintsearch/flint/tlog"
	"github.com/flintsearch/flint/tws"
	"go.uber.org/zap"
	"time"
)

// IndexEventType classifies an index lifecycle event
type IndexEventType string

// IndexEventType values
const (
	IndexCreated IndexEventType = "created"
	IndexUpdated IndexEventType = "updated"
	IndexDeleted IndexEventType = "deleted"
)

// IndexEvent is a notification about a change to an index
type IndexEvent struct {
	Type      IndexEventType `json:"type"`
	UID       string         `json:"uid"`
	Timestamp time.Time      `json:"timestamp"`
}

var watchBackoffConfig = retry.ExpConfig{
	Min:   100 * time.Millisecond,
	Max:   30 * time.Second,
	Scale: 2.0,
}

// WatchIndexes streams index lifecycle events into the sink until the context
// closes.
//
// Keeps retrying in the face of network errors. Always returns a non-nil
// error: the context's cancelation reason.
func (c *Client) WatchIndexes(ctx context.Context, sink chan<- IndexEvent) error {
	logger := tlog.Get(ctx)

	url := tws.WithWSScheme(c.server) + "/events"
	header := http.Header{}
	if err := c.authHeader(header); err != nil {
		return err
	}

	backoff := retry.NewExpBackoff(watchBackoffConfig)
	for {
		logger.Debug("Connecting to the index event stream", zap.String("url", url))
		err := tws.Dial(ctx, url, header, tws.StreamerConfig, func(ctx context.Context, incoming <-chan tws.Message, outgoing chan<- tws.Message) error {
			backoff.Reset()
			for msg := range incoming {
				var event IndexEvent
				if err := json.Unmarshal(msg.Data, &event); err != nil {
					return err
				}
				select {
				case sink <- event:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return errors.New("event stream closed by server")
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("Index event stream disconnected", zap.Error(err))

		if err := retry.Sleep(ctx, backoff.Backoff()); err != nil {
			return err
		}
	}
}
