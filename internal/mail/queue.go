package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"financeiro/internal/logger"
)

var (
	// ErrQueueFull is returned when the delivery backlog is at capacity.
	ErrQueueFull = errors.New("mail queue is full")
	// ErrQueueClosed is returned after Close.
	ErrQueueClosed = errors.New("mail queue is closed")
)

const sendTimeout = 30 * time.Second

// Queue delivers messages on a background worker.
type Queue struct {
	sender Sender
	tasks  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue holding at most size pending messages.
func NewQueue(sender Sender, size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{sender: sender, tasks: make(chan Message, size)}
}

// Start launches the delivery worker.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for msg := range q.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := q.sender.Send(ctx, msg); err != nil {
			logger.Get().Errorw("Error sending email", "to", msg.To, "subject", msg.Subject, "error", err)
		}
		cancel()
	}
}

// Enqueue schedules msg for delivery without blocking.
func (q *Queue) Enqueue(msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the backlog to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}
