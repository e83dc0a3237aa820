package models

import (
	"gorm.io/gorm"
)

// Nutrition holds the ten daily accumulators. All values reset to zero
// when the owning user's LastResetDate rolls over.
type Nutrition struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	Fiber       float64 `json:"fiber"`
	Calcium     float64 `json:"calcium"`
	Iron        float64 `json:"iron"`
	Zinc        float64 `json:"zinc"`
	Magnesium   float64 `json:"magnesium"`
	Cholesterol float64 `json:"cholesterol"`
}

// MealSlot holds at most one meal per day; writing overwrites.
type MealSlot struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

type MealSlots struct {
	Breakfast    MealSlot `gorm:"embedded;embeddedPrefix:breakfast_" json:"breakfast"`
	MorningSnack MealSlot `gorm:"embedded;embeddedPrefix:morning_snack_" json:"morningSnack"`
	Lunch        MealSlot `gorm:"embedded;embeddedPrefix:lunch_" json:"lunch"`
	EveningSnack MealSlot `gorm:"embedded;embeddedPrefix:evening_snack_" json:"eveningSnack"`
	Dinner       MealSlot `gorm:"embedded;embeddedPrefix:dinner_" json:"dinner"`
}

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`

	// YYYY-MM-DD, server-local. Empty until the first reset.
	LastResetDate string `json:"lastResetDate"`

	Nutrition Nutrition `gorm:"embedded;embeddedPrefix:nutrition_" json:"nutrition"`
	Meals     MealSlots `gorm:"embedded" json:"meals"`

	ResetToken    string `json:"-"`
	ResetTokenExp int64  `json:"-"`
}
