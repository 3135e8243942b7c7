package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/wmosd/internal/display"
)

var (
	// ErrLoopStopped is returned when work is posted to a loop that has
	// finished running.
	ErrLoopStopped = errors.New("control loop stopped")
	// ErrEventsClosed is returned by Run when the window system event
	// source goes away.
	ErrEventsClosed = errors.New("event source closed")
)

// Loop is the daemon's control goroutine. Widgets, timers, window system
// events and D-Bus requests all run on it one at a time, so nothing they
// touch needs locking. Loop implements display.Scheduler.
type Loop struct {
	logger *slog.Logger
	tasks  chan func()
	done   chan struct{}

	mu      sync.Mutex
	next    display.TimerID
	timers  map[display.TimerID]*time.Timer
	running bool
	stopped bool

	// event source handshake, see AttachEvents
	before, after, quit <-chan struct{}
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger: logger,
		tasks:  make(chan func(), 64),
		done:   make(chan struct{}),
		timers: make(map[display.TimerID]*time.Timer),
	}
}

// AttachEvents hands the loop an event source that processes its queue
// between a receive on before and a receive on after, such as the channels
// of xevent.MainPing. The loop runs nothing else in between. A receive on
// quit ends Run with ErrEventsClosed. Call before Run.
func (l *Loop) AttachEvents(before, after, quit <-chan struct{}) {
	l.before, l.after, l.quit = before, after, quit
}

// Post queues fn to run on the loop. It reports false when the loop has
// stopped and fn will never run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result. It must not be
// called from the loop itself.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	_, err := CallValue(ctx, l, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// CallValue runs fn on the loop and returns what it produced. When ctx ends
// before the loop reaches fn, fn is skipped.
func CallValue[T any](ctx context.Context, l *Loop, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	var zero T

	ch := make(chan result, 1)
	posted := l.Post(func() {
		if err := ctx.Err(); err != nil {
			ch <- result{err: err}
			return
		}
		v, err := fn()
		ch <- result{v: v, err: err}
	})
	if !posted {
		return zero, ErrLoopStopped
	}

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		return zero, ErrLoopStopped
	}
}

// Schedule implements display.Scheduler. fn runs on the loop once, d from
// now, unless the timer is cancelled first.
func (l *Loop) Schedule(d time.Duration, fn func()) display.TimerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	id := l.next
	if l.stopped {
		return id
	}
	l.timers[id] = time.AfterFunc(d, func() {
		l.Post(func() { l.fire(id, fn) })
	})
	return id
}

// Cancel implements display.Scheduler.
func (l *Loop) Cancel(id display.TimerID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
}

// Pending returns the number of timers that have neither fired nor been
// cancelled.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// fire runs on the loop. A timer cancelled after its time.Timer went off
// but before this ran is no longer in the map.
func (l *Loop) fire(id display.TimerID, fn func()) {
	l.mu.Lock()
	_, ok := l.timers[id]
	delete(l.timers, id)
	l.mu.Unlock()

	if ok {
		fn()
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted work until ctx is cancelled or the event source
// closes. A loop runs once; pending timers are dropped when it returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return errors.New("control loop already ran")
	}
	l.running = true
	l.mu.Unlock()

	defer l.shutdown()
	l.logger.Debug("control loop started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
		case <-l.before:
			select {
			case <-l.after:
			case <-ctx.Done():
				return nil
			}
		case <-l.quit:
			return ErrEventsClosed
		}
	}
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	l.running = false
	l.stopped = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()

	close(l.done)
	l.logger.Debug("control loop stopped")
}
