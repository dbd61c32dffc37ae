package ffmpeg

import (
	"sync"
	"sync/atomic"
	"time"
)

// LogMessage is a log line as delivered to the host.
type LogMessage struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Message is one delivered event: exactly one of Log and Stats is set.
type Message struct {
	Time  time.Time   `json:"time"`
	Log   *LogMessage `json:"log,omitempty"`
	Stats *Statistics `json:"stats,omitempty"`
}

// EventPublisher receives every message the host delivers. Implementations
// should be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Message)
}

// noopPublisher is the default; it drops messages.
type noopPublisher struct{}

func (noopPublisher) Publish(Message) {}

// Broadcaster fans messages out to subscribers. A subscriber that is not
// keeping up loses messages instead of stalling the bridge consumer.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Message
	next    uint64
	closed  bool
	dropped atomic.Uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan Message)}
}

// Subscribe returns a channel of future messages and a cancel func that
// unregisters it and closes the channel. buffer <= 0 uses 64.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Message, buffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.next++
	id := b.next
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
			b.mu.Unlock()
		})
	}
}

func (b *Broadcaster) Publish(m Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- m:
		default:
			b.dropped.Add(1)
			listenerDropped.Inc()
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many messages slow subscribers have lost.
func (b *Broadcaster) Dropped() uint64 { return b.dropped.Load() }

// Close closes every subscriber channel. Later subscriptions get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
