package services

import (
	"errors"
	"time"

	"github.com/KibitoU7xC/recover.ai-app/models"

	"gorm.io/gorm"
)

// ReminderUpdate carries a partial edit; empty fields are left as-is.
type ReminderUpdate struct {
	Medicine     string `json:"medicine"`
	ReminderTime string `json:"reminderTime"`
	Status       string `json:"status"`
}

// ReminderStore is the persistence surface over reminder records.
type ReminderStore interface {
	Create(reminder *models.Reminder) error
	ListToday(userID uint, dayStart, dayEnd time.Time) ([]models.Reminder, error)
	ListHistory(userID uint) ([]models.Reminder, error)
	Update(id uint, update ReminderUpdate) (*models.Reminder, error)
	Complete(id uint) (*models.Reminder, error)
	Delete(id uint) error
	// ListDueAt returns every reminder, any user, whose reminderTime
	// equals the given HH:MM string. Full scan; fine at this scale.
	ListDueAt(hhmm string) ([]models.Reminder, error)
}

// mergeReminderUpdate applies only the supplied fields; an empty update
// still stamps updatedAt. Status moves freely between the three values —
// no transition validation.
func mergeReminderUpdate(reminder *models.Reminder, update ReminderUpdate, now time.Time) {
	if update.Medicine != "" {
		reminder.Medicine = update.Medicine
	}
	if update.ReminderTime != "" {
		reminder.ReminderTime = update.ReminderTime
	}
	if update.Status != "" {
		reminder.Status = update.Status
	}
	reminder.UpdatedAt = now
}

type GormReminderStore struct {
	db *gorm.DB
}

func NewGormReminderStore(db *gorm.DB) *GormReminderStore {
	return &GormReminderStore{db: db}
}

func (s *GormReminderStore) Create(reminder *models.Reminder) error {
	return s.db.Create(reminder).Error
}

func (s *GormReminderStore) ListToday(userID uint, dayStart, dayEnd time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, dayStart, dayEnd).
		Order("reminder_time ASC").
		Find(&reminders).Error
	return reminders, err
}

func (s *GormReminderStore) ListHistory(userID uint) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reminders).Error
	return reminders, err
}

func (s *GormReminderStore) Update(id uint, update ReminderUpdate) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	mergeReminderUpdate(&reminder, update, time.Now())

	if err := s.db.Save(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (s *GormReminderStore) Complete(id uint) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.First(&reminder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	reminder.Status = models.ReminderCompleted
	reminder.CompletedAt = &now
	reminder.UpdatedAt = now

	if err := s.db.Save(&reminder).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// Delete succeeds whether or not the record exists.
func (s *GormReminderStore) Delete(id uint) error {
	return s.db.Delete(&models.Reminder{}, id).Error
}

func (s *GormReminderStore) ListDueAt(hhmm string) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.Where("reminder_time = ?", hhmm).Find(&reminders).Error
	return reminders, err
}

// ReminderService wraps the store with owner snapshotting and day
// windows.
type ReminderService struct {
	store ReminderStore
	users UserStore
}

func NewReminderService(store ReminderStore, users UserStore) *ReminderService {
	return &ReminderService{store: store, users: users}
}

// Create captures the owner's name and phone at this instant so the
// reminder stays deliverable even if the user record changes later.
func (s *ReminderService) Create(userID uint, medicine, reminderTime string) (*models.Reminder, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	reminder := &models.Reminder{
		UserID:       user.ID,
		Name:         user.Name,
		Phone:        user.Phone,
		Medicine:     medicine,
		ReminderTime: reminderTime,
		Status:       models.ReminderPending,
	}
	if err := s.store.Create(reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) ListToday(userID uint) ([]models.Reminder, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.store.ListToday(userID, start, start.Add(24*time.Hour))
}

func (s *ReminderService) ListHistory(userID uint) ([]models.Reminder, error) {
	return s.store.ListHistory(userID)
}

func (s *ReminderService) Update(id uint, update ReminderUpdate) (*models.Reminder, error) {
	return s.store.Update(id, update)
}

func (s *ReminderService) Complete(id uint) (*models.Reminder, error) {
	return s.store.Complete(id)
}

func (s *ReminderService) Delete(id uint) error {
	return s.store.Delete(id)
}
