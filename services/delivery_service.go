package services

import (
	"context"
	"fmt"
	"time"

	"github.com/KibitoU7xC/recover.ai-app/models"
	"github.com/KibitoU7xC/recover.ai-app/utils"

	"github.com/sirupsen/logrus"
)

// SMSSender dispatches one text message to an E.164 phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// DeliveryService matches due reminders to the current minute and
// dispatches SMS notifications. It runs alongside the request-serving
// process and shares its stores.
type DeliveryService struct {
	reminders ReminderStore
	users     UserStore
	sms       SMSSender
	logger    *logrus.Logger

	defaultPhone string // operator fallback number, may be empty
	countryCode  string // prefix for bare 10-digit numbers
	interval     time.Duration
	sendTimeout  time.Duration
}

func NewDeliveryService(reminders ReminderStore, users UserStore, sms SMSSender, logger *logrus.Logger, defaultPhone, countryCode string) *DeliveryService {
	if countryCode == "" {
		countryCode = "91"
	}
	return &DeliveryService{
		reminders:    reminders,
		users:        users,
		sms:          sms,
		logger:       logger,
		defaultPhone: defaultPhone,
		countryCode:  countryCode,
		interval:     time.Minute,
		sendTimeout:  15 * time.Second,
	}
}

// Run ticks once per minute until the context is cancelled. Tick
// failures are logged and the loop keeps going; a down store must not
// kill the scheduler.
func (s *DeliveryService) Run(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("reminder delivery loop started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder delivery loop stopped")
			return
		case now := <-ticker.C:
			if err := s.Tick(ctx, now); err != nil {
				s.logger.WithError(err).Error("delivery tick failed")
			}
		}
	}
}

// Tick delivers every reminder whose time-of-day equals now's HH:MM.
// A reminder fires every day the loop is running and the clock matches;
// nothing marks it sent or suppresses re-delivery across days.
func (s *DeliveryService) Tick(ctx context.Context, now time.Time) error {
	current := now.Format("15:04")

	due, err := s.reminders.ListDueAt(current)
	if err != nil {
		return fmt.Errorf("query due reminders at %s: %w", current, err)
	}

	for _, reminder := range due {
		if err := s.deliver(ctx, reminder); err != nil {
			// Failure isolation is per reminder, not per tick.
			s.logger.WithFields(logrus.Fields{
				"reminderId": reminder.ID,
				"medicine":   reminder.Medicine,
			}).WithError(err).Error("reminder delivery failed")
		}
	}
	return nil
}

func (s *DeliveryService) deliver(ctx context.Context, reminder models.Reminder) error {
	name, phone := s.resolveIdentity(reminder)
	if phone == "" {
		s.logger.WithField("reminderId", reminder.ID).
			Warn("no phone number resolvable, skipping reminder")
		return nil
	}

	to := utils.NormalizePhone(phone, s.countryCode)
	if to == "" {
		s.logger.WithField("reminderId", reminder.ID).
			Warn("phone number empty after normalization, skipping reminder")
		return nil
	}

	if name == "" {
		name = "there"
	}
	medicine := reminder.Medicine
	if medicine == "" {
		medicine = "your medicine"
	}
	body := fmt.Sprintf("Hi %s! This is your reminder to take %s. Stay healthy!", name, medicine)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	if err := s.sms.Send(sendCtx, to, body); err != nil {
		return &DeliveryError{ReminderID: reminder.ID, Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"reminderId": reminder.ID,
		"to":         to,
	}).Info("reminder delivered")
	return nil
}

// resolveIdentity walks the fallback chain: the reminder's own snapshot,
// then the owning user record, then the operator default number. First
// non-empty value wins per field.
func (s *DeliveryService) resolveIdentity(reminder models.Reminder) (name, phone string) {
	name = reminder.Name
	phone = reminder.Phone

	if name == "" || phone == "" {
		if user, err := s.users.GetByID(reminder.UserID); err == nil {
			if name == "" {
				name = user.Name
			}
			if phone == "" {
				phone = user.Phone
			}
		}
	}

	if phone == "" {
		phone = s.defaultPhone
	}
	return name, phone
}
