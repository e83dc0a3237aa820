package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const analysisPrompt = `Analyze this food image. Return a pure JSON object: { "food_name": "Short Name", "calories": 0, "macros": { "protein_g": 0, "carbs_g": 0, "fats_g": 0, "fiber_g": 0 }, "micros": { "calcium_mg": 0, "iron_mg": 0, "zinc_mg": 0, "magnesium_mg": 0, "cholesterol_mg": 0 } }`

// MacroValues and MicroValues use pointers so a field the provider
// omitted is distinguishable from an explicit zero.
type MacroValues struct {
	Protein *float64 `json:"protein_g"`
	Carbs   *float64 `json:"carbs_g"`
	Fats    *float64 `json:"fats_g"`
	Fiber   *float64 `json:"fiber_g"`
}

type MicroValues struct {
	Calcium     *float64 `json:"calcium_mg"`
	Iron        *float64 `json:"iron_mg"`
	Zinc        *float64 `json:"zinc_mg"`
	Magnesium   *float64 `json:"magnesium_mg"`
	Cholesterol *float64 `json:"cholesterol_mg"`
}

// AnalysisResult is the structured nutrition record decoded from the
// vision provider's response.
type AnalysisResult struct {
	FoodName string      `json:"food_name"`
	Calories *float64    `json:"calories"`
	Macros   MacroValues `json:"macros"`
	Micros   MicroValues `json:"micros"`
}

// Validate rejects results with any of the ten numeric fields absent.
func (r *AnalysisResult) Validate() error {
	fields := map[string]*float64{
		"calories":       r.Calories,
		"protein_g":      r.Macros.Protein,
		"carbs_g":        r.Macros.Carbs,
		"fats_g":         r.Macros.Fats,
		"fiber_g":        r.Macros.Fiber,
		"calcium_mg":     r.Micros.Calcium,
		"iron_mg":        r.Micros.Iron,
		"zinc_mg":        r.Micros.Zinc,
		"magnesium_mg":   r.Micros.Magnesium,
		"cholesterol_mg": r.Micros.Cholesterol,
	}
	for name, v := range fields {
		if v == nil {
			return &ValidationError{Field: name, Msg: "missing numeric field"}
		}
	}
	return nil
}

// InlineImage is an uploaded photo handed to the vision provider.
type InlineImage struct {
	Data     []byte
	MimeType string
}

// VisionClient is the generative vision provider. Responses are free
// text expected to contain one JSON object, possibly fenced.
type VisionClient interface {
	GenerateContent(ctx context.Context, prompt string, image *InlineImage) (string, error)
}

// UploadStore stages uploaded images for the duration of one analysis.
type UploadStore interface {
	Stage(ctx context.Context, data []byte, mimeType string) (string, error)
	Discard(ctx context.Context, key string) error
}

// AnalysisService orchestrates one "analyze a food photo" request.
type AnalysisService struct {
	nutrition *NutritionService
	vision    VisionClient
	uploads   UploadStore
	logger    *logrus.Logger
}

func NewAnalysisService(nutrition *NutritionService, vision VisionClient, uploads UploadStore, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{nutrition: nutrition, vision: vision, uploads: uploads, logger: logger}
}

// Analyze runs the full pipeline: daily reset, provider call, decode,
// ledger apply. The staged copy of the image is discarded on success and
// failure alike. Provider failures are never retried here.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint, mealType string, image *InlineImage) (*AnalysisResult, error) {
	today := time.Now().Format("2006-01-02")
	if err := s.nutrition.EnsureDailyReset(userID, today); err != nil {
		return nil, err
	}

	if image != nil && s.uploads != nil {
		key, err := s.uploads.Stage(ctx, image.Data, image.MimeType)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := s.uploads.Discard(ctx, key); err != nil {
				s.logger.WithFields(logrus.Fields{"key": key, "error": err}).
					Warn("failed to discard staged upload")
			}
		}()
	}

	text, err := s.vision.GenerateContent(ctx, analysisPrompt, image)
	if err != nil {
		return nil, &AnalysisError{Msg: "provider call failed", Err: err}
	}

	result, err := decodeAnalysis(text)
	if err != nil {
		return nil, err
	}

	if err := s.nutrition.ApplyMealAnalysis(userID, mealType, result); err != nil {
		return nil, err
	}
	return result, nil
}

// decodeAnalysis strips Markdown code fences and decodes the JSON
// payload. A fenced response must parse identically to a bare one.
func decodeAnalysis(text string) (*AnalysisResult, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return nil, &AnalysisError{Msg: "empty provider response"}
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Field: typeErr.Field, Msg: "non-numeric value"}
		}
		return nil, &AnalysisError{Msg: "undecodable provider response", Err: err}
	}
	return &result, nil
}
