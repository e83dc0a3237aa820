package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	fitAggregateURL = "https://www.googleapis.com/fitness/v1/users/me/dataset:aggregate"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
)

// FitnessSummary is the display-only dashboard aggregate: a 7-day step
// series plus today's headline numbers.
type FitnessSummary struct {
	Dates               []string `json:"dates"`
	Steps               []int    `json:"steps"`
	TodaySteps          int      `json:"todaySteps"`
	TodayHeartRate      int      `json:"todayHeartRate"`
	TodayCaloriesBurned int      `json:"todayCaloriesBurned"`
	TodaySleep          string   `json:"todaySleep"`
	IsConnected         bool     `json:"isConnected"`
}

type fitPointValue struct {
	IntVal float64 `json:"intVal"`
	FpVal  float64 `json:"fpVal"`
}

type fitPoint struct {
	StartTimeNanos string          `json:"startTimeNanos"`
	EndTimeNanos   string          `json:"endTimeNanos"`
	Value          []fitPointValue `json:"value"`
}

type fitDataset struct {
	DataSourceID string     `json:"dataSourceId"`
	Point        []fitPoint `json:"point"`
}

type fitBucket struct {
	StartTimeMillis string       `json:"startTimeMillis"`
	Dataset         []fitDataset `json:"dataset"`
}

type fitAggregateResponse struct {
	Bucket []fitBucket `json:"bucket"`
}

// FitnessService reads the activity-tracking provider. Pure reshaping;
// it never mutates local state.
type FitnessService struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

func NewFitnessService(logger *logrus.Logger) *FitnessService {
	return &FitnessService{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: fitAggregateURL,
		logger:  logger,
	}
}

// FetchSummary aggregates the last seven days of steps, calories and
// sleep plus the most recent heart-rate reading. Any provider failure
// returns an error; callers degrade to a disconnected dashboard.
func (s *FitnessService) FetchSummary(ctx context.Context, accessToken string) (*FitnessSummary, error) {
	endTime := time.Now()
	startTime := endTime.Add(-7 * 24 * time.Hour)

	history, err := s.aggregate(ctx, accessToken, map[string]interface{}{
		"aggregateBy": []map[string]string{
			{"dataTypeName": "com.google.step_count.delta"},
			{"dataTypeName": "com.google.calories.expended"},
			{"dataTypeName": "com.google.sleep.segment"},
		},
		"bucketByTime":    map[string]int64{"durationMillis": 86400000},
		"startTimeMillis": startTime.UnixMilli(),
		"endTimeMillis":   endTime.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	summary := buildSummary(history.Bucket, endTime.Format("2006-01-02"))

	instant, err := s.aggregate(ctx, accessToken, map[string]interface{}{
		"aggregateBy": []map[string]string{
			{"dataTypeName": "com.google.heart_rate.bpm"},
		},
		"bucketByTime":    map[string]int64{"durationMillis": 60000},
		"startTimeMillis": endTime.Add(-24 * time.Hour).UnixMilli(),
		"endTimeMillis":   endTime.UnixMilli(),
	})
	if err != nil {
		// Heart rate is decoration; keep the rest of the dashboard.
		s.logger.WithError(err).Warn("heart rate query failed")
		return summary, nil
	}
	summary.TodayHeartRate = latestHeartRate(instant.Bucket)

	return summary, nil
}

func (s *FitnessService) aggregate(ctx context.Context, accessToken string, body map[string]interface{}) (*fitAggregateResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fit aggregate failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded fitAggregateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}

// buildSummary reshapes daily buckets into the dashboard series. Sleep
// segments span day boundaries, so sleep is summed across all buckets.
func buildSummary(buckets []fitBucket, todayStr string) *FitnessSummary {
	summary := &FitnessSummary{
		Dates:       []string{},
		Steps:       []int{},
		TodaySleep:  "--",
		IsConnected: true,
	}

	var todayBucket *fitBucket
	var totalSleepMillis float64

	for i := range buckets {
		bucket := buckets[i]
		startMillis, _ := strconv.ParseInt(bucket.StartTimeMillis, 10, 64)
		day := time.UnixMilli(startMillis)

		summary.Dates = append(summary.Dates, day.Format("Mon"))
		summary.Steps = append(summary.Steps, sumSteps(bucket))

		if day.Format("2006-01-02") == todayStr {
			todayBucket = &buckets[i]
		}

		for _, ds := range bucket.Dataset {
			if !strings.Contains(ds.DataSourceID, "sleep") {
				continue
			}
			for _, p := range ds.Point {
				start, _ := strconv.ParseFloat(p.StartTimeNanos, 64)
				end, _ := strconv.ParseFloat(p.EndTimeNanos, 64)
				totalSleepMillis += (end - start) / 1e6
			}
		}
	}

	if todayBucket != nil {
		summary.TodaySteps = sumSteps(*todayBucket)
		for _, ds := range todayBucket.Dataset {
			if strings.Contains(ds.DataSourceID, "calories") && len(ds.Point) > 0 && len(ds.Point[0].Value) > 0 {
				summary.TodayCaloriesBurned = int(ds.Point[0].Value[0].FpVal + 0.5)
			}
		}
	}

	sleepMinutes := int(totalSleepMillis / 1000 / 60)
	summary.TodaySleep = fmt.Sprintf("%dh %dm", sleepMinutes/60, sleepMinutes%60)

	return summary
}

func sumSteps(bucket fitBucket) int {
	total := 0
	for _, ds := range bucket.Dataset {
		if !strings.Contains(ds.DataSourceID, "step_count") {
			continue
		}
		for _, p := range ds.Point {
			if len(p.Value) > 0 {
				total += int(p.Value[0].IntVal)
			}
		}
	}
	return total
}

// latestHeartRate scans minute buckets newest-first for the most recent
// reading.
func latestHeartRate(buckets []fitBucket) int {
	for i := len(buckets) - 1; i >= 0; i-- {
		if len(buckets[i].Dataset) == 0 {
			continue
		}
		ds := buckets[i].Dataset[0]
		if len(ds.Point) == 0 {
			continue
		}
		last := ds.Point[len(ds.Point)-1]
		if len(last.Value) > 0 {
			return int(last.Value[0].FpVal + 0.5)
		}
	}
	return 0
}

// ExchangeGoogleCode swaps an OAuth authorization code for an access
// token.
func (s *FitnessService) ExchangeGoogleCode(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("client_id", os.Getenv("GOOGLE_CLIENT_ID"))
	form.Set("client_secret", os.Getenv("GOOGLE_CLIENT_SECRET"))
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}
	return token.AccessToken, nil
}
