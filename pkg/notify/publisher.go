package notify

import (
	"sync"
	"sync/atomic"

	"github.com/ecosense/notifsync/pkg/models"
)

// Snapshot is one consistent view of the engine's output: the visible list
// and its unread count.
type Snapshot struct {
	Notifications []models.Notification
	UnreadCount   int
}

// Publisher fans snapshots out to any number of subscribers.
//
// Contract:
//   - Publish MUST be non-blocking; slow subscribers drop snapshots.
//   - New subscribers immediately receive the last published snapshot.
type Publisher struct {
	mu   sync.RWMutex
	subs map[uint64]chan Snapshot
	last Snapshot
	seq  atomic.Uint64
}

func NewPublisher() *Publisher {
	return &Publisher{subs: map[uint64]chan Snapshot{}}
}

func (p *Publisher) Publish(s Snapshot) {
	p.mu.Lock()
	p.last = s
	chs := make([]chan Snapshot, 0, len(p.subs))
	for _, ch := range p.subs {
		chs = append(chs, ch)
	}
	p.mu.Unlock()

	for _, ch := range chs {
		// Non-blocking delivery. If a subscriber unsubscribes concurrently
		// and the channel closes, recover from the send panic.
		func() {
			defer func() { _ = recover() }()
			select {
			case ch <- s:
			default:
			}
		}()
	}
}

func (p *Publisher) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Snapshot, buffer)
	id := p.seq.Add(1)

	p.mu.Lock()
	p.subs[id] = ch
	ch <- p.last
	p.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

// Last returns the most recently published snapshot.
func (p *Publisher) Last() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
