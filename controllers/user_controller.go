package controllers

import (
	"net/http"

	"github.com/KibitoU7xC/recover.ai-app/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users services.UserStore
}

func NewUserController(users services.UserStore) *UserController {
	return &UserController{users: users}
}

// Profile returns the current user with ledger totals and meal slots —
// the data source for the food page.
func (uc *UserController) Profile(c *gin.Context) {
	user, err := uc.users.GetByID(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
