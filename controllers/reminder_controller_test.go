package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KibitoU7xC/recover.ai-app/models"
	"github.com/KibitoU7xC/recover.ai-app/services"

	"github.com/gin-gonic/gin"
)

type mockReminderStore struct {
	reminders map[uint]*models.Reminder
	created   int
}

func (m *mockReminderStore) Create(reminder *models.Reminder) error {
	m.created++
	reminder.ID = uint(m.created)
	if m.reminders == nil {
		m.reminders = make(map[uint]*models.Reminder)
	}
	m.reminders[reminder.ID] = reminder
	return nil
}

func (m *mockReminderStore) ListToday(userID uint, dayStart, dayEnd time.Time) ([]models.Reminder, error) {
	return nil, nil
}

func (m *mockReminderStore) ListHistory(userID uint) ([]models.Reminder, error) {
	return nil, nil
}

func (m *mockReminderStore) Update(id uint, update services.ReminderUpdate) (*models.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return r, nil
}

func (m *mockReminderStore) Complete(id uint) (*models.Reminder, error) {
	r, ok := m.reminders[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	r.Status = models.ReminderCompleted
	return r, nil
}

func (m *mockReminderStore) Delete(id uint) error { return nil }

func (m *mockReminderStore) ListDueAt(hhmm string) ([]models.Reminder, error) {
	return nil, nil
}

type mockUserStore struct {
	user *models.User
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, services.ErrNotFound
	}
	return m.user, nil
}

func (m *mockUserStore) ResetDayIfStale(id uint, today string) error { return nil }

func (m *mockUserStore) ApplyNutrition(id uint, delta models.Nutrition, slotColumn string, meal models.MealSlot) error {
	return nil
}

func setupReminderRouter(store *mockReminderStore, users *mockUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rc := NewReminderController(services.NewReminderService(store, users))

	r := gin.New()
	authed := func(c *gin.Context) { c.Set("userID", uint(1)) }
	r.POST("/reminders", authed, rc.Create)
	r.PUT("/reminders/:id", authed, rc.Update)
	r.DELETE("/reminders/:id", authed, rc.Delete)
	return r
}

func TestCreateReminderSnapshotsUser(t *testing.T) {
	user := &models.User{Name: "Asha", Phone: "9876543210"}
	user.ID = 1
	store := &mockReminderStore{}
	r := setupReminderRouter(store, &mockUserStore{user: user})

	body, _ := json.Marshal(map[string]string{
		"medicine":     "Metformin",
		"reminderTime": "09:00",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reminders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	created := store.reminders[1]
	if created == nil || created.Name != "Asha" || created.Phone != "9876543210" {
		t.Fatalf("reminder must snapshot owner identity: %+v", created)
	}
}

func TestUpdateMissingReminderReturns404(t *testing.T) {
	r := setupReminderRouter(&mockReminderStore{}, &mockUserStore{})

	body, _ := json.Marshal(map[string]string{"status": "skipped"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/reminders/99", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	r := setupReminderRouter(&mockReminderStore{}, &mockUserStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reminders/99", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("deleting an absent reminder must succeed, status = %d", w.Code)
	}
}
