package notification

//go:generate mockgen -destination=../mocks/mock_dispatcher.go -package=mocks github.com/driveshare/auth-service/internal/notification Dispatcher

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/driveshare/auth-service/internal/auth/domain"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is one code delivery. Duplicate sends are harmless: the code does
// not change until it is reissued.
type Message struct {
	Channel   Channel
	Recipient string
	Code      string
	Purpose   domain.OTPPurpose
}

// Dispatcher is the fire-and-forget delivery contract. Dispatch must never
// block the issuing request.
type Dispatcher interface {
	Dispatch(msg Message)
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// QueueDispatcher delivers messages from a bounded queue on a background
// worker, retrying transient failures with exponential backoff.
type QueueDispatcher struct {
	queue      chan Message
	email      Sender
	sms        Sender
	maxRetries int
	baseDelay  time.Duration
	wg         sync.WaitGroup
}

func NewQueueDispatcher(email, sms Sender, queueSize, maxRetries int) *QueueDispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &QueueDispatcher{
		queue:      make(chan Message, queueSize),
		email:      email,
		sms:        sms,
		maxRetries: maxRetries,
		baseDelay:  500 * time.Millisecond,
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *QueueDispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		// Queue full: drop rather than hold the request open. The code
		// stays valid and the client can hit resend.
		log.Printf("notification queue full, dropping %s delivery to %s", msg.Channel, msg.Recipient)
	}
}

// Close stops accepting messages and waits for in-flight deliveries.
func (d *QueueDispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *QueueDispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *QueueDispatcher) deliver(msg Message) {
	sender := d.email
	if msg.Channel == ChannelSMS {
		sender = d.sms
	}

	delay := d.baseDelay
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := sender.Send(ctx, msg)
		cancel()
		if err == nil {
			return
		}
		log.Printf("failed to deliver %s code to %s (attempt %d): %v", msg.Channel, msg.Recipient, attempt+1, err)
	}
	log.Printf("giving up on %s delivery to %s after %d retries", msg.Channel, msg.Recipient, d.maxRetries)
}
