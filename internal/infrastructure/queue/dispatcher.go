package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/manaable/leave-api/internal/api/metrics"
	"github.com/manaable/leave-api/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultBuffer      = 256
	defaultSendTimeout = 30 * time.Second
)

var (
	// ErrQueueFull is returned when the recipient's worker channel is at capacity.
	ErrQueueFull = errors.New("notification queue full")
	// ErrDispatcherClosed is returned by Notify after Stop.
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

type message struct {
	to      string
	subject string
	body    string
}

// Options tunes a Dispatcher. Zero values fall back to package defaults.
type Options struct {
	Workers     int
	Buffer      int
	SendTimeout time.Duration
}

// Dispatcher moves notification delivery off the request path. Messages are
// routed to a fixed set of workers by hashing the recipient address, so mail
// to one person is delivered in the order it was queued.
//
// Dispatcher implements ports.Notifier; the sink it wraps does the real send.
type Dispatcher struct {
	workers     []chan message
	sink        ports.Notifier
	log         zerolog.Logger
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher delivering through sink.
func NewDispatcher(sink ports.Notifier, log zerolog.Logger, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}
	d := &Dispatcher{
		workers:     make([]chan message, opts.Workers),
		sink:        sink,
		log:         log,
		sendTimeout: opts.SendTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Sends made by a worker derive from
// ctx, never from the request that queued the message.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues a message without blocking. The request context is not
// used for delivery.
func (d *Dispatcher) Notify(_ context.Context, to, subject, body string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(to)
	select {
	case d.workers[idx] <- message{to: to, subject: subject, body: body}:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Stop refuses new messages, lets workers drain what is queued and waits
// for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, msg message) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sink.Notify(sendCtx, msg.to, msg.subject, msg.body)
	result := "sent"
	if err != nil {
		result = "failed"
		d.log.Error().Err(err).
			Str("to", msg.to).
			Str("subject", msg.subject).
			Int("worker_id", worker).
			Msg("notification delivery failed")
	}
	metrics.NotificationsTotal.WithLabelValues(result).Inc()
	metrics.NotificationSendDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
