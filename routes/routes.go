package routes

import (
	"github.com/KibitoU7xC/recover.ai-app/controllers"
	"github.com/KibitoU7xC/recover.ai-app/middlewares"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Analyze   *controllers.AnalyzeController
	Reminders *controllers.ReminderController
	Dashboard *controllers.DashboardController
	Chat      *controllers.ChatController
	User      *controllers.UserController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.GET("/logout", controllers.Logout)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
		auth.GET("/google", ctrl.Dashboard.GoogleAuth)
		auth.GET("/google/callback", ctrl.Dashboard.GoogleCallback)
	}

	// Protected routes
	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/user/profile", ctrl.User.Profile)
		protected.GET("/dashboard", ctrl.Dashboard.Dashboard)

		protected.POST("/analyze", ctrl.Analyze.Analyze)

		protected.POST("/reminders", ctrl.Reminders.Create)
		protected.GET("/reminders/today", ctrl.Reminders.ListToday)
		protected.GET("/reminders/history", ctrl.Reminders.ListHistory)
		protected.PUT("/reminders/:id", ctrl.Reminders.Update)
		protected.PUT("/reminders/:id/complete", ctrl.Reminders.Complete)
		protected.DELETE("/reminders/:id", ctrl.Reminders.Delete)

		protected.GET("/community/ws", ctrl.Chat.ChatWS)
		protected.GET("/community/messages", ctrl.Chat.History)
	}

	return r
}
