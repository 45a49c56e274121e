package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/tws"
	"github.com/ridge/must/v2"
	"time"
)

// broadcaster fans index events out to connected event stream clients.
// A slow client's buffer may overflow; events are dropped for that client
// rather than stalling the service.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan flint.IndexEvent]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[chan flint.IndexEvent]struct{}{}}
}

func (b *broadcaster) subscribe() chan flint.IndexEvent {
	ch := make(chan flint.IndexEvent, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = struct{}{}
	return ch
}

func (b *broadcaster) unsubscribe(ch chan flint.IndexEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, ch)
}

func (b *broadcaster) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *broadcaster) publish(event flint.IndexEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// EventSubscribers returns the number of connected event stream clients.
// Useful in tests that need to know a watcher is attached before acting.
func (s *Service) EventSubscribers() int {
	return s.events.subscribers()
}

func (s *Service) publish(eventType flint.IndexEventType, uid string) {
	s.events.publish(flint.IndexEvent{
		Type:      eventType,
		UID:       uid,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	tws.Serve(w, r, tws.StreamerConfig, func(ctx context.Context, incoming <-chan tws.Message, outgoing chan<- tws.Message) error {
		ch := s.events.subscribe()
		defer s.events.unsubscribe(ch)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-incoming:
				if !ok { // client hung up
					return nil
				}
				// clients aren't expected to talk; ignore anything they send
			case event := <-ch:
				select {
				case outgoing <- tws.Message{Data: must.OK1(json.Marshal(event))}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})
}
