package events

import (
	"sync"

	"github.com/agenthands/graphconsole/internal/query"
)

// Bus fans events out to its subscribers in subscription order. Listeners are
// called synchronously on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	query    []subscription[QueryListener]
	metadata []subscription[MetadataListener]
}

type subscription[L any] struct {
	id       int
	listener L
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeQuery registers l and returns a function that removes it again.
func (b *Bus) SubscribeQuery(l QueryListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.query = append(b.query, subscription[QueryListener]{id: id, listener: l})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.query = remove(b.query, id)
	}
}

func (b *Bus) SubscribeMetadata(l MetadataListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.metadata = append(b.metadata, subscription[MetadataListener]{id: id, listener: l})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.metadata = remove(b.metadata, id)
	}
}

func remove[L any](subs []subscription[L], id int) []subscription[L] {
	out := make([]subscription[L], 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

func (b *Bus) queryListeners() []subscription[QueryListener] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.query
}

func (b *Bus) metadataListeners() []subscription[MetadataListener] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metadata
}

func (b *Bus) ExecutionStarted(p Payload) {
	for _, s := range b.queryListeners() {
		s.listener.ExecutionStarted(p)
	}
}

func (b *Bus) ResultReceived(p Payload, result *query.Result) {
	for _, s := range b.queryListeners() {
		s.listener.ResultReceived(p, result)
	}
}

func (b *Bus) HandleError(p Payload, err error) {
	for _, s := range b.queryListeners() {
		s.listener.HandleError(p, err)
	}
}

func (b *Bus) ExecutionCompleted(p Payload) {
	for _, s := range b.queryListeners() {
		s.listener.ExecutionCompleted(p)
	}
}

func (b *Bus) MetadataRefreshStarted(dataSource string) {
	for _, s := range b.metadataListeners() {
		s.listener.MetadataRefreshStarted(dataSource)
	}
}

func (b *Bus) MetadataRefreshSucceeded(dataSource string) {
	for _, s := range b.metadataListeners() {
		s.listener.MetadataRefreshSucceeded(dataSource)
	}
}

func (b *Bus) MetadataRefreshFailed(dataSource string, err error) {
	for _, s := range b.metadataListeners() {
		s.listener.MetadataRefreshFailed(dataSource, err)
	}
}
