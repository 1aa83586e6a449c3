package broker

import (
	"context"
	"sync"

	"orderflow/internal/core/ports"
)

// MemoryPublisher fans status changes out to in-process subscribers. It
// stands in for a broker when a single instance serves every dashboard.
type MemoryPublisher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan ports.StatusChanged
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{subs: make(map[int]chan ports.StatusChanged)}
}

// Subscribe returns a channel receiving every event published from now on,
// and a function that ends the subscription and closes the channel.
func (p *MemoryPublisher) Subscribe(buffer int) (<-chan ports.StatusChanged, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan ports.StatusChanged, buffer)
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers event to every subscriber, waiting for room in full
// buffers until ctx is done.
func (p *MemoryPublisher) Publish(ctx context.Context, event ports.StatusChanged) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, ch := range p.subs {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
