package notify

import (
	"sync"
	"time"
)

// CancelFunc stops future runs armed by a Scheduler. It never interrupts a
// run already in progress.
type CancelFunc func()

// Scheduler arms a repeating callback. The production implementation runs on
// wall-clock timers; tests drive ticks deterministically with
// ManualScheduler.
type Scheduler interface {
	ScheduleEvery(period time.Duration, fn func()) CancelFunc
}

// Clock supplies the current time, injected so normalization defaults are
// testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// TickerScheduler runs fn on a time.Ticker in its own goroutine.
type TickerScheduler struct{}

func (TickerScheduler) ScheduleEvery(period time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(period)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler fires only when Tick is called. Canceled callbacks stop
// firing, matching the production contract.
type ManualScheduler struct {
	mu  sync.Mutex
	fns map[uint64]func()
	seq uint64
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{fns: make(map[uint64]func())}
}

func (s *ManualScheduler) ScheduleEvery(period time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.fns[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// Tick runs every armed callback once.
func (s *ManualScheduler) Tick() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Armed reports how many callbacks are currently scheduled.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}
