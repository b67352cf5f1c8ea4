package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
	gate chan struct{}
}

func (s *captureSender) Send(ctx context.Context, msg mailer.Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *captureSender) sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.msgs...)
}

func TestAppointmentEmail(t *testing.T) {
	msg := AppointmentEmail(models.Booking{
		Patient:     "a@x.com",
		PatientName: "<Ana>",
		Treatment:   "Cleaning",
		Date:        "2024-01-01",
		Slot:        "10am",
	}, "clinic@x.com", "Main Street 1")

	assert.Equal(t, "clinic@x.com", msg.From)
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Your appointment for Cleaning is on 2024-01-01 at 10am is confirmed!", msg.Subject)
	assert.Equal(t, msg.Subject, msg.Text)
	assert.Contains(t, msg.HTML, "<h1>Hello &lt;Ana&gt;</h1>")
	assert.Contains(t, msg.HTML, "<p>Main Street 1</p>")
}

func TestNotificationService_DeliversQueuedBookings(t *testing.T) {
	sender := &captureSender{}
	svc := NewNotificationService(sender, NotificationConfig{From: "clinic@x.com", Workers: 2, QueueSize: 4}, zap.NewNop())
	svc.Start()

	assert.True(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "a@x.com", Treatment: "Cleaning"}))
	assert.True(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "b@x.com", Treatment: "X-Ray"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))

	recipients := []string{}
	for _, m := range sender.sent() {
		recipients = append(recipients, m.To)
	}
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, recipients)
}

func TestNotificationService_FullQueueDropsWithoutBlocking(t *testing.T) {
	sender := &captureSender{gate: make(chan struct{})}
	svc := NewNotificationService(sender, NotificationConfig{Workers: 1, QueueSize: 1}, zap.NewNop())
	svc.Start()

	// The worker takes the first booking and blocks on the gate, the second
	// fills the queue, the third has nowhere to go.
	assert.True(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "1@x.com"}))
	require.Eventually(t, func() bool { return len(svc.jobs) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "2@x.com"}))
	assert.False(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "3@x.com"}))

	close(sender.gate)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
	assert.Len(t, sender.sent(), 2)
}

func TestNotificationService_SendErrorIsSwallowed(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp: 550 mailbox unavailable")}
	svc := NewNotificationService(sender, NotificationConfig{}, zap.NewNop())
	svc.Start()

	assert.True(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "a@x.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(ctx))
	assert.Len(t, sender.sent(), 1)
}

func TestNotificationService_StoppedQueueRejects(t *testing.T) {
	svc := NewNotificationService(&captureSender{}, NotificationConfig{}, zap.NewNop())
	svc.Start()
	require.NoError(t, svc.Stop(context.Background()))

	assert.False(t, svc.SendAppointmentConfirmation(models.Booking{Patient: "a@x.com"}))
	// Stopping twice is harmless.
	assert.NoError(t, svc.Stop(context.Background()))
}
