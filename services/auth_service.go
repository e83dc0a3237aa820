package services

import (
	"errors"
	"time"

	"github.com/KibitoU7xC/recover.ai-app/config"
	"github.com/KibitoU7xC/recover.ai-app/models"
	"github.com/KibitoU7xC/recover.ai-app/utils"
)

func RegisterUser(email, password, name, phone string) (*models.User, error) {
	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("user already exists")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:         email,
		Password:      hashedPassword,
		Name:          name,
		Phone:         phone,
		LastResetDate: time.Now().Format("2006-01-02"),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func AuthenticateUser(email, password string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("incorrect password")
	}
	return &user, nil
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, "email = ?", email).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// StartPasswordReset stamps a short-lived reset code on the user and
// mails it out.
func StartPasswordReset(email string) error {
	user, err := FindUserByEmail(email)
	if err != nil {
		return err
	}

	code := utils.GenerateRandomToken(6)
	user.ResetToken = code
	user.ResetTokenExp = time.Now().Add(15 * time.Minute).Unix()
	if err := config.DB.Save(user).Error; err != nil {
		return err
	}

	return utils.SendResetEmail(user.Email, code)
}

func ResetPassword(code, newPassword string) error {
	var user models.User
	if err := config.DB.Where("reset_token = ?", code).First(&user).Error; err != nil {
		return errors.New("invalid or expired token")
	}
	if user.ResetTokenExp < time.Now().Unix() {
		return errors.New("invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = 0
	return config.DB.Save(&user).Error
}
