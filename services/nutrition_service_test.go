package services

import (
	"errors"
	"testing"

	"github.com/KibitoU7xC/recover.ai-app/models"
)

// memUserStore mimics the store's atomic semantics in memory.
type memUserStore struct {
	users  map[uint]*models.User
	resets int
}

func newMemUserStore(users ...*models.User) *memUserStore {
	m := &memUserStore{users: make(map[uint]*models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) ResetDayIfStale(id uint, today string) error {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	if u.LastResetDate == today {
		return nil
	}
	m.resets++
	u.Nutrition = models.Nutrition{}
	u.Meals = models.MealSlots{}
	u.LastResetDate = today
	return nil
}

func (m *memUserStore) ApplyNutrition(id uint, delta models.Nutrition, slotColumn string, meal models.MealSlot) error {
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Nutrition.Calories += delta.Calories
	u.Nutrition.Protein += delta.Protein
	u.Nutrition.Carbs += delta.Carbs
	u.Nutrition.Fats += delta.Fats
	u.Nutrition.Fiber += delta.Fiber
	u.Nutrition.Calcium += delta.Calcium
	u.Nutrition.Iron += delta.Iron
	u.Nutrition.Zinc += delta.Zinc
	u.Nutrition.Magnesium += delta.Magnesium
	u.Nutrition.Cholesterol += delta.Cholesterol

	switch slotColumn {
	case "breakfast":
		u.Meals.Breakfast = meal
	case "morning_snack":
		u.Meals.MorningSnack = meal
	case "lunch":
		u.Meals.Lunch = meal
	case "evening_snack":
		u.Meals.EveningSnack = meal
	case "dinner":
		u.Meals.Dinner = meal
	}
	return nil
}

func fv(v float64) *float64 { return &v }

func fullResult(name string, calories float64) *AnalysisResult {
	return &AnalysisResult{
		FoodName: name,
		Calories: fv(calories),
		Macros: MacroValues{
			Protein: fv(10.5), Carbs: fv(20), Fats: fv(5), Fiber: fv(3),
		},
		Micros: MicroValues{
			Calcium: fv(100), Iron: fv(2), Zinc: fv(1), Magnesium: fv(30), Cholesterol: fv(15),
		},
	}
}

func testUser(id uint) *models.User {
	u := &models.User{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
	u.ID = id
	return u
}

func TestEnsureDailyResetIdempotent(t *testing.T) {
	user := testUser(1)
	user.LastResetDate = "2026-08-31"
	user.Nutrition.Calories = 1200
	store := newMemUserStore(user)
	svc := NewNutritionService(store)

	if err := svc.EnsureDailyReset(1, "2026-09-01"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if store.resets != 1 {
		t.Fatalf("expected 1 reset, got %d", store.resets)
	}
	if user.Nutrition.Calories != 0 {
		t.Fatalf("calories not zeroed: %v", user.Nutrition.Calories)
	}

	if err := svc.EnsureDailyReset(1, "2026-09-01"); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if store.resets != 1 {
		t.Fatalf("second call with same date must be a no-op, resets=%d", store.resets)
	}
}

func TestApplyMealAnalysisExactCalories(t *testing.T) {
	user := testUser(1)
	user.LastResetDate = "2026-09-01"
	store := newMemUserStore(user)
	svc := NewNutritionService(store)

	result := fullResult("Dosa", 412.7)
	if err := svc.ApplyMealAnalysis(1, "breakfast", result); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if user.Nutrition.Calories != 412.7 {
		t.Fatalf("expected exactly 412.7 calories, got %v", user.Nutrition.Calories)
	}
	if user.Meals.Breakfast.Name != "Dosa" || user.Meals.Breakfast.Calories != 412.7 {
		t.Fatalf("breakfast slot not written: %+v", user.Meals.Breakfast)
	}
}

func TestApplyMealAnalysisSameSlotTwiceDoubleCounts(t *testing.T) {
	user := testUser(1)
	user.LastResetDate = "2026-09-01"
	store := newMemUserStore(user)
	svc := NewNutritionService(store)

	if err := svc.ApplyMealAnalysis(1, "lunch", fullResult("Rice Bowl", 500)); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := svc.ApplyMealAnalysis(1, "lunch", fullResult("Salad", 200)); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	// Slot shows only the last write; totals include both uploads.
	if user.Meals.Lunch.Name != "Salad" || user.Meals.Lunch.Calories != 200 {
		t.Fatalf("lunch slot should hold the second result, got %+v", user.Meals.Lunch)
	}
	if user.Nutrition.Calories != 700 {
		t.Fatalf("totals should sum both uploads, got %v", user.Nutrition.Calories)
	}
}

func TestApplyMealAnalysisUnknownSlotStillAccumulates(t *testing.T) {
	user := testUser(1)
	user.LastResetDate = "2026-09-01"
	store := newMemUserStore(user)
	svc := NewNutritionService(store)

	if err := svc.ApplyMealAnalysis(1, "midnightSnack", fullResult("Chips", 300)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if user.Nutrition.Calories != 300 {
		t.Fatalf("totals should update for unknown slot, got %v", user.Nutrition.Calories)
	}
	empty := models.MealSlots{}
	if user.Meals != empty {
		t.Fatalf("no slot should be written for unknown label, got %+v", user.Meals)
	}
}

func TestApplyMealAnalysisMissingFieldRejected(t *testing.T) {
	user := testUser(1)
	store := newMemUserStore(user)
	svc := NewNutritionService(store)

	result := fullResult("Dosa", 400)
	result.Micros.Zinc = nil

	err := svc.ApplyMealAnalysis(1, "breakfast", result)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if user.Nutrition.Calories != 0 {
		t.Fatalf("store must stay untouched on validation failure, got %v", user.Nutrition.Calories)
	}
}
