package services

import (
	"testing"
	"time"

	"github.com/KibitoU7xC/recover.ai-app/models"
)

// stubReminderStore serves canned reminders and records creates.
type stubReminderStore struct {
	due     []models.Reminder
	dueErr  error
	created []*models.Reminder
}

func (s *stubReminderStore) Create(reminder *models.Reminder) error {
	reminder.ID = uint(len(s.created) + 1)
	s.created = append(s.created, reminder)
	return nil
}

func (s *stubReminderStore) ListToday(userID uint, dayStart, dayEnd time.Time) ([]models.Reminder, error) {
	return nil, nil
}

func (s *stubReminderStore) ListHistory(userID uint) ([]models.Reminder, error) {
	return nil, nil
}

func (s *stubReminderStore) Update(id uint, update ReminderUpdate) (*models.Reminder, error) {
	return nil, ErrNotFound
}

func (s *stubReminderStore) Complete(id uint) (*models.Reminder, error) {
	return nil, ErrNotFound
}

func (s *stubReminderStore) Delete(id uint) error { return nil }

func (s *stubReminderStore) ListDueAt(hhmm string) ([]models.Reminder, error) {
	if s.dueErr != nil {
		return nil, s.dueErr
	}
	var out []models.Reminder
	for _, r := range s.due {
		if r.ReminderTime == hhmm {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestCreateSnapshotsOwnerIdentity(t *testing.T) {
	users := newMemUserStore(testUser(7))
	store := &stubReminderStore{}
	svc := NewReminderService(store, users)

	reminder, err := svc.Create(7, "Metformin", "09:00")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if reminder.Name != "Asha" || reminder.Phone != "9876543210" {
		t.Fatalf("owner identity not snapshotted: %+v", reminder)
	}
	if reminder.Status != models.ReminderPending {
		t.Fatalf("new reminder must be pending, got %q", reminder.Status)
	}
}

func TestCreateUnknownOwner(t *testing.T) {
	svc := NewReminderService(&stubReminderStore{}, newMemUserStore())

	if _, err := svc.Create(42, "Metformin", "09:00"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMergeReminderUpdateEmptyPartial(t *testing.T) {
	created := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	reminder := models.Reminder{
		ID:           1,
		Medicine:     "Metformin",
		ReminderTime: "09:00",
		Status:       models.ReminderPending,
		UpdatedAt:    created,
	}

	now := created.Add(2 * time.Hour)
	mergeReminderUpdate(&reminder, ReminderUpdate{}, now)

	if reminder.Medicine != "Metformin" || reminder.ReminderTime != "09:00" || reminder.Status != models.ReminderPending {
		t.Fatalf("empty partial must not touch fields: %+v", reminder)
	}
	if !reminder.UpdatedAt.Equal(now) {
		t.Fatalf("empty partial must still stamp updatedAt")
	}
}

func TestMergeReminderUpdatePartialFields(t *testing.T) {
	reminder := models.Reminder{
		Medicine:     "Metformin",
		ReminderTime: "09:00",
		Status:       models.ReminderPending,
	}

	mergeReminderUpdate(&reminder, ReminderUpdate{Status: models.ReminderSkipped}, time.Now())

	if reminder.Status != models.ReminderSkipped {
		t.Fatalf("status not merged: %q", reminder.Status)
	}
	if reminder.Medicine != "Metformin" || reminder.ReminderTime != "09:00" {
		t.Fatalf("unsupplied fields must be untouched: %+v", reminder)
	}

	// And back again: no transition validation.
	mergeReminderUpdate(&reminder, ReminderUpdate{Status: models.ReminderPending}, time.Now())
	if reminder.Status != models.ReminderPending {
		t.Fatalf("status must move freely, got %q", reminder.Status)
	}
}
