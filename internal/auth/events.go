package auth

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bentossell/rewriter-cursor/internal/model"
)

const listenerBuffer = 16

// Broadcaster fans auth state changes out to subscribed listeners.
// Each listener runs on its own goroutine and sees events in publish order.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]*listener
	closed    bool
}

type listener struct {
	events chan model.AuthEvent
	done   chan struct{}
	goid   atomic.Uint64
}

// wait blocks until the listener goroutine exits. Called from inside the
// listener itself it returns at once; the goroutine exits after fn returns.
func (l *listener) wait() {
	if l.goid.Load() == currentGoroutineID() {
		return
	}
	<-l.done
}

// currentGoroutineID parses the id from the "goroutine N [" stack header.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(field, ' '); i > 0 {
		field = field[:i]
	}
	id, _ := strconv.ParseUint(string(field), 10, 64)
	return id
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[int]*listener)}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function blocks until fn has finished its in-flight events and
// is safe to call more than once, including from inside fn.
func (b *Broadcaster) Subscribe(fn func(model.AuthEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	l := &listener{
		events: make(chan model.AuthEvent, listenerBuffer),
		done:   make(chan struct{}),
	}
	started := make(chan struct{})
	go func() {
		defer close(l.done)
		l.goid.Store(currentGoroutineID())
		close(started)
		for ev := range l.events {
			fn(ev)
		}
	}()
	<-started

	id := b.nextID
	b.nextID++
	b.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if cur, ok := b.listeners[id]; ok && cur == l {
				delete(b.listeners, id)
				close(l.events)
			}
			b.mu.Unlock()
			l.wait()
		})
	}
}

// Publish delivers ev to every listener. It reports how many listeners had
// a full buffer and missed the event.
func (b *Broadcaster) Publish(ev model.AuthEvent) (dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, l := range b.listeners {
		select {
		case l.events <- ev:
		default:
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live listeners.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Close removes every listener and waits for their goroutines to exit.
// Later Subscribe calls return a no-op unsubscribe.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	pending := make([]*listener, 0, len(b.listeners))
	for id, l := range b.listeners {
		delete(b.listeners, id)
		close(l.events)
		pending = append(pending, l)
	}
	b.mu.Unlock()

	for _, l := range pending {
		l.wait()
	}
}
