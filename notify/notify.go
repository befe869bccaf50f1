// Package notify delivers transactional e-mail. Sends are fire-and-forget:
// a failed send is logged and dropped, never retried, and never reaches the
// request that caused it.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/apebrain/shop-api/utils"
)

// Message is a single e-mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Queue accepts messages for background delivery.
type Queue interface {
	Dispatch(msg Message)
}

// Dispatcher is a Queue served by a fixed pool of workers.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	jobs    chan Message
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts workers goroutines draining a queue of size capacity.
func NewDispatcher(sender Sender, workers, capacity int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	d := &Dispatcher{
		sender:  sender,
		timeout: timeout,
		jobs:    make(chan Message, capacity),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Dispatch enqueues msg without blocking. Messages without a recipient and
// messages arriving while the queue is full or closed are dropped.
func (d *Dispatcher) Dispatch(msg Message) {
	if msg.To == "" {
		utils.LogDebug("Skipping notification %q: no recipient", msg.Subject)
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		utils.LogError("Notification %q to %s dropped: dispatcher closed", msg.Subject, msg.To)
		return
	}
	select {
	case d.jobs <- msg:
	default:
		utils.LogError("Notification %q to %s dropped: queue full", msg.Subject, msg.To)
	}
}

// Close stops accepting messages and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			utils.LogError("Failed to send notification %q to %s: %v", msg.Subject, msg.To, err)
		} else {
			utils.LogInfo("Notification %q sent to %s", msg.Subject, msg.To)
		}
		cancel()
	}
}
