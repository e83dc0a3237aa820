package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/KibitoU7xC/recover.ai-app/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalyzeController struct {
	analysis *services.AnalysisService
	logger   *logrus.Logger
}

func NewAnalyzeController(analysis *services.AnalysisService, logger *logrus.Logger) *AnalyzeController {
	return &AnalyzeController{analysis: analysis, logger: logger}
}

// Analyze handles POST /analyze: an optional "report" image plus an
// optional mealType form field. Provider internals never leak to the
// client.
func (ac *AnalyzeController) Analyze(c *gin.Context) {
	userID := c.GetUint("userID")
	mealType := c.PostForm("mealType")

	var image *services.InlineImage
	if file, header, err := c.Request.FormFile("report"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read upload"})
			return
		}
		image = &services.InlineImage{
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
		}
	}

	result, err := ac.analysis.Analyze(c.Request.Context(), userID, mealType, image)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.Error()})
			return
		}
		ac.logger.WithField("userId", userID).WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Analysis failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}
