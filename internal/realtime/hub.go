package realtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/messenger-cosmos-public/relay/internal/logging"
)

const (
	DefaultBufferSize        = 100
	DefaultHeartbeatInterval = 20 * time.Second
)

// Recorder observes registry changes and fan-out results.
type Recorder interface {
	ListenerAdded()
	ListenerRemoved()
	EventPublished(delivered, evicted int)
}

// Listener is one connected consumer. Its queue is written by Publish and
// drained only by the owning connection.
type Listener struct {
	id      string
	events  chan Event
	evicted atomic.Bool
}

func (l *Listener) ID() string { return l.id }

func (l *Listener) Events() <-chan Event { return l.events }

// Evicted reports whether the hub dropped this listener for falling behind.
func (l *Listener) Evicted() bool { return l.evicted.Load() }

// Hub fans published events out to every registered listener without ever
// blocking the publisher.
type Hub struct {
	mu        sync.Mutex
	listeners map[string]*Listener

	bufferSize int
	heartbeat  time.Duration
	log        *slog.Logger
	recorder   Recorder
}

type Option func(*Hub)

// WithBufferSize sets the per-listener queue capacity.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithHeartbeat sets how long a delivery loop may stay idle before it emits a keep-alive.
func WithHeartbeat(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(h *Hub) { h.recorder = r }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		listeners:  map[string]*Listener{},
		bufferSize: DefaultBufferSize,
		heartbeat:  DefaultHeartbeatInterval,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new listener. Events published before this call are
// not delivered to it.
func (h *Hub) Subscribe() *Listener {
	l := &Listener{
		id:     uuid.NewString(),
		events: make(chan Event, h.bufferSize),
	}

	h.mu.Lock()
	h.listeners[l.id] = l
	h.mu.Unlock()

	if h.recorder != nil {
		h.recorder.ListenerAdded()
	}
	h.log.Debug("listener subscribed", slog.String("listener", l.id))
	return l
}

// Unsubscribe removes l from the registry. Removing an absent listener is a no-op.
func (h *Hub) Unsubscribe(l *Listener) {
	h.mu.Lock()
	_, ok := h.listeners[l.id]
	if ok {
		delete(h.listeners, l.id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	if h.recorder != nil {
		h.recorder.ListenerRemoved()
	}
	h.log.Debug("listener unsubscribed", slog.String("listener", l.id))
}

// Publish offers evt to every registered listener. A listener whose queue is
// full loses the event and is evicted from the registry. Publish never blocks
// on a listener.
func (h *Hub) Publish(evt Event) {
	var (
		delivered int
		evicted   []*Listener
	)

	h.mu.Lock()
	for _, l := range h.listeners {
		select {
		case l.events <- evt:
			delivered++
		default:
			evicted = append(evicted, l)
		}
	}
	// The registry is not mutated while ranging over it.
	for _, l := range evicted {
		delete(h.listeners, l.id)
		l.evicted.Store(true)
	}
	h.mu.Unlock()

	for _, l := range evicted {
		h.log.Warn("slow listener evicted", slog.String("listener", l.id), slog.Int("buffer", cap(l.events)))
		if h.recorder != nil {
			h.recorder.ListenerRemoved()
		}
	}
	if h.recorder != nil {
		h.recorder.EventPublished(delivered, len(evicted))
	}
}

// Len returns the number of registered listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Sink is the downstream side of a delivery loop, usually a streaming HTTP response.
type Sink interface {
	WriteEvent(evt Event) error
	WriteKeepAlive() error
}

// Stream drains l into sink until ctx is done or the sink fails. When no event
// arrives for a heartbeat interval a keep-alive is written instead. A nil
// return means ctx ended; any other error comes from the sink.
//
// Stream does not unsubscribe l; the caller owns that.
func (h *Hub) Stream(ctx context.Context, l *Listener, sink Sink) error {
	timer := time.NewTimer(h.heartbeat)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-l.events:
			if err := sink.WriteEvent(evt); err != nil {
				h.log.Debug("listener write failed", slog.String("listener", l.id), logging.Error(err))
				return err
			}
			timer.Reset(h.heartbeat)
		case <-timer.C:
			if err := sink.WriteKeepAlive(); err != nil {
				h.log.Debug("listener keep-alive failed", slog.String("listener", l.id), logging.Error(err))
				return err
			}
			timer.Reset(h.heartbeat)
		}
	}
}
