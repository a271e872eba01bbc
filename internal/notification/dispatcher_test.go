package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveshare/auth-service/internal/auth/domain"
)

// fakeSender records deliveries and fails the first failCount attempts.
type fakeSender struct {
	mu        sync.Mutex
	calls     int
	failCount int
	delivered []Message
	started   chan struct{}
	gate      chan struct{}
}

func (s *fakeSender) Send(_ context.Context, msg Message) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failCount {
		return errors.New("transient delivery failure")
	}
	s.delivered = append(s.delivered, msg)
	return nil
}

func (s *fakeSender) stats() (int, []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]Message(nil), s.delivered...)
}

func TestQueueDispatcherRoutesByChannel(t *testing.T) {
	email := &fakeSender{}
	sms := &fakeSender{}

	d := NewQueueDispatcher(email, sms, 8, 0)
	d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2", Purpose: domain.PurposeLogin})
	d.Dispatch(Message{Channel: ChannelSMS, Recipient: "+15550001111", Code: "C3D4", Purpose: domain.PurposeLogin})
	d.Close()

	_, emailMsgs := email.stats()
	_, smsMsgs := sms.stats()
	require.Len(t, emailMsgs, 1)
	require.Len(t, smsMsgs, 1)
	assert.Equal(t, "driver@example.com", emailMsgs[0].Recipient)
	assert.Equal(t, "+15550001111", smsMsgs[0].Recipient)
}

func TestQueueDispatcherRetriesUntilSuccess(t *testing.T) {
	email := &fakeSender{failCount: 2}

	d := NewQueueDispatcher(email, &fakeSender{}, 8, 3)
	d.baseDelay = time.Millisecond

	d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2"})
	d.Close()

	calls, delivered := email.stats()
	assert.Equal(t, 3, calls)
	assert.Len(t, delivered, 1)
}

func TestQueueDispatcherGivesUpAfterMaxRetries(t *testing.T) {
	email := &fakeSender{failCount: 100}

	d := NewQueueDispatcher(email, &fakeSender{}, 8, 2)
	d.baseDelay = time.Millisecond

	d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2"})
	d.Close()

	calls, delivered := email.stats()
	assert.Equal(t, 3, calls) // initial attempt plus two retries
	assert.Empty(t, delivered)
}

func TestQueueDispatcherDropsWhenFull(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 4)
	email := &fakeSender{gate: gate, started: started}

	d := NewQueueDispatcher(email, &fakeSender{}, 1, 0)

	// First message occupies the worker, second fills the queue, third has
	// nowhere to go and must be dropped without blocking.
	d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2"})
	<-started

	done := make(chan struct{})
	go func() {
		d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2"})
		d.Dispatch(Message{Channel: ChannelEmail, Recipient: "driver@example.com", Code: "A1B2"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(gate)
	d.Close()

	calls, _ := email.stats()
	assert.Equal(t, 2, calls)
}

func TestLogSMSSender(t *testing.T) {
	s := NewLogSMSSender()
	assert.NoError(t, s.Send(context.Background(), Message{Recipient: "+15550001111", Code: "A1B2"}))
}

func TestMailerDevModeWithoutHost(t *testing.T) {
	m := NewMailer("", 0, "", "", "noreply@driveshare.test")
	err := m.Send(context.Background(), Message{
		Recipient: "driver@example.com",
		Code:      "A1B2",
		Purpose:   domain.PurposeEmailVerify,
	})
	assert.NoError(t, err)
}
