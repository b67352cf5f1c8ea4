package services

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services/mailer"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// NotificationService sends booking confirmations in the background. Bookings
// are queued on a bounded channel and drained by a fixed set of workers;
// delivery failures are only logged.
type NotificationService struct {
	sender  mailer.Sender
	from    string
	address string
	log     *zap.Logger

	jobs    chan models.Booking
	workers int
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type NotificationConfig struct {
	From          string
	ClinicAddress string
	Workers       int
	QueueSize     int
}

func NewNotificationService(sender mailer.Sender, cfg NotificationConfig, log *zap.Logger) *NotificationService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	return &NotificationService{
		sender:  sender,
		from:    cfg.From,
		address: cfg.ClinicAddress,
		log:     log,
		jobs:    make(chan models.Booking, cfg.QueueSize),
		workers: cfg.Workers,
	}
}

// Start launches the workers. They exit once Stop has been called and the
// queue is drained.
func (s *NotificationService) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
}

// Stop closes the queue and waits for queued confirmations to be sent, or
// for ctx to expire.
func (s *NotificationService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendAppointmentConfirmation queues a confirmation email for booking. It
// never blocks: when the queue is full or stopped the email is dropped.
func (s *NotificationService) SendAppointmentConfirmation(booking models.Booking) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.log.Warn("notification queue stopped, confirmation dropped", zap.String("patient", booking.Patient))
		return false
	}
	select {
	case s.jobs <- booking:
		return true
	default:
		s.log.Warn("notification queue full, confirmation dropped", zap.String("patient", booking.Patient))
		return false
	}
}

func (s *NotificationService) work() {
	defer s.wg.Done()
	for booking := range s.jobs {
		s.deliver(booking)
	}
}

func (s *NotificationService) deliver(booking models.Booking) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic while sending confirmation", zap.Any("error", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	msg := AppointmentEmail(booking, s.from, s.address)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error("failed to send appointment confirmation",
			zap.String("patient", booking.Patient),
			zap.String("treatment", booking.Treatment),
			zap.Error(err),
		)
		return
	}
	s.log.Info("appointment confirmation sent",
		zap.String("patient", booking.Patient),
		zap.String("treatment", booking.Treatment),
	)
}

// AppointmentEmail renders the confirmation sent to the patient.
func AppointmentEmail(b models.Booking, from, clinicAddress string) mailer.Message {
	summary := fmt.Sprintf("Your appointment for %s is on %s at %s is confirmed!", b.Treatment, b.Date, b.Slot)

	body := fmt.Sprintf(`<div>
  <h1>Hello %s</h1>
  <h3>Your Appointment for %s</h3>
  <p>Looking forward to seeing you on %s at %s</p>
  <h3>Our Address</h3>
  <p>%s</p>
</div>`,
		html.EscapeString(b.PatientName),
		html.EscapeString(b.Treatment),
		html.EscapeString(b.Date),
		html.EscapeString(b.Slot),
		html.EscapeString(clinicAddress),
	)

	return mailer.Message{
		From:    from,
		To:      b.Patient,
		Subject: summary,
		Text:    summary,
		HTML:    body,
	}
}
