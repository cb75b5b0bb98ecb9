// Package dispatch runs data access requests off the UI goroutine and delivers
// their results back through a channel that only the UI loop consumes.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy decides what happens to a request whose Op is already in flight.
type Policy int

const (
	// DropWhileBusy ignores a request while another of the same Op runs.
	DropWhileBusy Policy = iota
	// Queue runs every request; results arrive in completion order.
	Queue
)

// ParsePolicy maps "drop" and "queue" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropWhileBusy, nil
	case "queue":
		return Queue, nil
	}
	return DropWhileBusy, fmt.Errorf("unknown dispatch policy %q", s)
}

func (p Policy) String() string {
	if p == Queue {
		return "queue"
	}
	return "drop"
}

const defaultInboxSize = 64

// Options configure a Dispatcher.
type Options struct {
	Policy    Policy
	InboxSize int
	Logger    *zap.Logger
}

// Dispatcher starts one goroutine per accepted request. Workers only produce
// Results; applying them is left to whoever reads Results().
type Dispatcher struct {
	exec    Executor
	policy  Policy
	logger  *zap.Logger
	results chan Result

	mu     sync.Mutex
	slots  map[Op]*opSlot
	closed bool
	wg     sync.WaitGroup
}

// New builds a Dispatcher around exec.
func New(exec Executor, opts Options) *Dispatcher {
	size := opts.InboxSize
	if size <= 0 {
		size = defaultInboxSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		exec:    exec,
		policy:  opts.Policy,
		logger:  logger,
		results: make(chan Result, size),
		slots:   make(map[Op]*opSlot),
	}
}

// Submit starts req on a worker. It returns false without doing anything when
// the dispatcher is closed, or when the policy is DropWhileBusy and a request of
// the same Op is still running.
func (d *Dispatcher) Submit(req Request) (Handle, bool) {
	if req == nil {
		return Handle{}, false
	}
	op := req.Op()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return Handle{}, false
	}
	var slot *opSlot
	if d.policy == DropWhileBusy {
		slot = d.slotLocked(op)
		select {
		case slot.busy <- struct{}{}:
		default:
			d.mu.Unlock()
			d.logger.Debug("request dropped while busy", zap.Stringer("op", op))
			return Handle{}, false
		}
	}
	d.wg.Add(1)
	d.mu.Unlock()

	h := Handle{Op: op, Correlation: uuid.New()}
	d.logger.Debug("request submitted", zap.Stringer("op", op), zap.Stringer("correlation", h.Correlation))
	go d.run(h, req, slot)
	return h, true
}

// opSlot guards one Op under DropWhileBusy. busy holds the running request;
// post keeps results of the same Op in submission order.
type opSlot struct {
	busy chan struct{}
	post sync.Mutex
}

func (d *Dispatcher) slotLocked(op Op) *opSlot {
	slot, ok := d.slots[op]
	if !ok {
		slot = &opSlot{busy: make(chan struct{}, 1)}
		d.slots[op] = slot
	}
	return slot
}

func (d *Dispatcher) run(h Handle, req Request, slot *opSlot) {
	defer d.wg.Done()

	value, err := d.execute(req)
	res := Result{Op: h.Op, Correlation: h.Correlation, Request: req, Value: value}
	if err != nil {
		res.Value = nil
		res.Err = &OpError{Op: h.Op, Err: err}
		d.logger.Error("worker failed",
			zap.Stringer("op", h.Op),
			zap.Stringer("correlation", h.Correlation),
			zap.Error(err),
		)
	}

	if slot == nil {
		d.results <- res
		return
	}
	// Free the slot before posting so a request submitted in reaction to this
	// result is never dropped. The next request of this Op can then finish
	// while we wait for inbox space, so it waits on post behind us.
	slot.post.Lock()
	defer slot.post.Unlock()
	<-slot.busy
	d.results <- res
}

func (d *Dispatcher) execute(req Request) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.exec.Execute(context.Background(), req)
}

// Policy reports how busy submissions are handled.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Results is the inbox. Only the UI loop should receive from it.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Drain returns every result that is already waiting, without blocking.
func (d *Dispatcher) Drain() []Result {
	var out []Result
	for {
		select {
		case r, ok := <-d.results:
			if !ok {
				return out
			}
			out = append(out, r)
		default:
			return out
		}
	}
}

// Close stops accepting requests, waits for running workers to post their
// results and closes the inbox. In-flight work is never cancelled, so the inbox
// must keep being read (or have room) while Close waits.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}
