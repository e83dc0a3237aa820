package services

import (
	"errors"

	"github.com/KibitoU7xC/recover.ai-app/models"

	"gorm.io/gorm"
)

// Valid meal slot labels. Anything else leaves the slots untouched.
var mealSlotColumns = map[string]string{
	"breakfast":    "breakfast",
	"morningSnack": "morning_snack",
	"lunch":        "lunch",
	"eveningSnack": "evening_snack",
	"dinner":       "dinner",
}

// UserStore is the persistence surface the ledger and the delivery loop
// need from the user table.
type UserStore interface {
	GetByID(id uint) (*models.User, error)
	// ResetDayIfStale zeroes the accumulators and slots and stamps
	// lastResetDate, in one conditional update that only fires when the
	// stored date differs from today.
	ResetDayIfStale(id uint, today string) error
	// ApplyNutrition increments the ten accumulators atomically and, when
	// slotColumn is non-empty, overwrites that slot in the same update.
	ApplyNutrition(id uint, delta models.Nutrition, slotColumn string, meal models.MealSlot) error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) ResetDayIfStale(id uint, today string) error {
	zeroed := map[string]interface{}{
		"last_reset_date": today,
	}
	for _, col := range nutritionColumns {
		zeroed[col] = 0
	}
	for _, slot := range mealSlotColumns {
		zeroed[slot+"_name"] = ""
		zeroed[slot+"_calories"] = 0
	}

	// The date guard makes the check-then-act atomic: two requests
	// straddling midnight race to the same single-row update and only one
	// of them matches.
	return s.db.Model(&models.User{}).
		Where("id = ? AND last_reset_date <> ?", id, today).
		Updates(zeroed).Error
}

var nutritionColumns = []string{
	"nutrition_calories",
	"nutrition_protein",
	"nutrition_carbs",
	"nutrition_fats",
	"nutrition_fiber",
	"nutrition_calcium",
	"nutrition_iron",
	"nutrition_zinc",
	"nutrition_magnesium",
	"nutrition_cholesterol",
}

func (s *GormUserStore) ApplyNutrition(id uint, delta models.Nutrition, slotColumn string, meal models.MealSlot) error {
	updates := map[string]interface{}{
		"nutrition_calories":    gorm.Expr("nutrition_calories + ?", delta.Calories),
		"nutrition_protein":     gorm.Expr("nutrition_protein + ?", delta.Protein),
		"nutrition_carbs":       gorm.Expr("nutrition_carbs + ?", delta.Carbs),
		"nutrition_fats":        gorm.Expr("nutrition_fats + ?", delta.Fats),
		"nutrition_fiber":       gorm.Expr("nutrition_fiber + ?", delta.Fiber),
		"nutrition_calcium":     gorm.Expr("nutrition_calcium + ?", delta.Calcium),
		"nutrition_iron":        gorm.Expr("nutrition_iron + ?", delta.Iron),
		"nutrition_zinc":        gorm.Expr("nutrition_zinc + ?", delta.Zinc),
		"nutrition_magnesium":   gorm.Expr("nutrition_magnesium + ?", delta.Magnesium),
		"nutrition_cholesterol": gorm.Expr("nutrition_cholesterol + ?", delta.Cholesterol),
	}
	if slotColumn != "" {
		updates[slotColumn+"_name"] = meal.Name
		updates[slotColumn+"_calories"] = meal.Calories
	}
	return s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// NutritionService owns a user's per-day totals and meal slots.
type NutritionService struct {
	store UserStore
}

func NewNutritionService(store UserStore) *NutritionService {
	return &NutritionService{store: store}
}

// EnsureDailyReset zeroes the ledger when today differs from the stored
// reset date. A second call with the same date is a no-op.
func (s *NutritionService) EnsureDailyReset(userID uint, today string) error {
	return s.store.ResetDayIfStale(userID, today)
}

// ApplyMealAnalysis increments the ten accumulators by the provider
// result and, for a valid mealType, overwrites that slot with the food
// name and calories. An unknown mealType still updates the totals but
// writes no slot. Values are applied verbatim.
func (s *NutritionService) ApplyMealAnalysis(userID uint, mealType string, result *AnalysisResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	delta := models.Nutrition{
		Calories:    *result.Calories,
		Protein:     *result.Macros.Protein,
		Carbs:       *result.Macros.Carbs,
		Fats:        *result.Macros.Fats,
		Fiber:       *result.Macros.Fiber,
		Calcium:     *result.Micros.Calcium,
		Iron:        *result.Micros.Iron,
		Zinc:        *result.Micros.Zinc,
		Magnesium:   *result.Micros.Magnesium,
		Cholesterol: *result.Micros.Cholesterol,
	}

	slot := mealSlotColumns[mealType]
	meal := models.MealSlot{}
	if slot != "" {
		meal = models.MealSlot{Name: result.FoodName, Calories: *result.Calories}
	}
	return s.store.ApplyNutrition(userID, delta, slot, meal)
}
