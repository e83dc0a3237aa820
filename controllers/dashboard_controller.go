package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/KibitoU7xC/recover.ai-app/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const fitScopes = "https://www.googleapis.com/auth/fitness.activity.read " +
	"https://www.googleapis.com/auth/fitness.body.read " +
	"https://www.googleapis.com/auth/fitness.sleep.read " +
	"https://www.googleapis.com/auth/fitness.heart_rate.read"

type DashboardController struct {
	users   services.UserStore
	fitness *services.FitnessService
	logger  *logrus.Logger
}

func NewDashboardController(users services.UserStore, fitness *services.FitnessService, logger *logrus.Logger) *DashboardController {
	return &DashboardController{users: users, fitness: fitness, logger: logger}
}

// Dashboard returns the user's ledger plus, when a Google token is
// present, the activity summary. Provider failures degrade to a
// disconnected dashboard instead of failing the request.
func (dc *DashboardController) Dashboard(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")

	user, err := dc.users.GetByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	graph := &services.FitnessSummary{
		Dates:      []string{},
		Steps:      []int{},
		TodaySleep: "--",
	}
	if token := c.Query("google_token"); token != "" {
		summary, err := dc.fitness.FetchSummary(c.Request.Context(), token)
		if err != nil {
			dc.logger.WithError(err).Error("google fit fetch failed")
		} else {
			graph = summary
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "graphData": graph})
}

func baseURL() string {
	if base := os.Getenv("EXTERNAL_URL"); base != "" {
		return base
	}
	return "http://localhost:8080"
}

// GoogleAuth redirects to the Google consent screen for the fitness
// scopes.
func (dc *DashboardController) GoogleAuth(c *gin.Context) {
	redirectURI := baseURL() + "/auth/google/callback"
	authURL := fmt.Sprintf(
		"https://accounts.google.com/o/oauth2/v2/auth?client_id=%s&redirect_uri=%s&response_type=code&scope=%s&access_type=offline",
		os.Getenv("GOOGLE_CLIENT_ID"),
		url.QueryEscape(redirectURI),
		url.QueryEscape(fitScopes),
	)
	c.Redirect(http.StatusFound, authURL)
}

func (dc *DashboardController) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	token, err := dc.fitness.ExchangeGoogleCode(c.Request.Context(), code, baseURL()+"/auth/google/callback")
	if err != nil {
		dc.logger.WithError(err).Error("google auth failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error logging into Google Fit"})
		return
	}

	c.Redirect(http.StatusFound, "/dashboard?google_token="+url.QueryEscape(token))
}
