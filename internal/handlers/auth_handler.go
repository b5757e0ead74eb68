package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
)

type loginAttempt struct {
	email     string
	ipAddress string
	timestamp time.Time
	success   bool
}

type AuthHandler struct {
	db               *gorm.DB
	authMiddleware   *middleware.AuthMiddleware
	loginAttempts    []loginAttempt
	rateLimitWindow  time.Duration
	maxLoginAttempts int
	blockDuration    time.Duration
	blockedIPs       map[string]time.Time
	blockedEmails    map[string]time.Time
	attemptsMutex    sync.Mutex
}

func NewAuthHandler(db *gorm.DB, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		db:               db,
		authMiddleware:   authMiddleware,
		loginAttempts:    []loginAttempt{},
		rateLimitWindow:  10 * time.Minute,
		maxLoginAttempts: 3,
		blockDuration:    45 * time.Minute,
		blockedIPs:       make(map[string]time.Time),
		blockedEmails:    make(map[string]time.Time),
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correo y contraseña son obligatorios"})
		return
	}

	ipAddress := c.ClientIP()

	if h.isIPBlocked(ipAddress) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Demasiados intentos fallidos. Intente de nuevo más tarde."})
		return
	}

	if h.isEmailBlocked(input.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Demasiados intentos fallidos con este correo. Intente de nuevo más tarde."})
		return
	}

	var profile models.Profile
	if err := h.db.Where("email = ?", input.Email).First(&profile).Error; err != nil {
		h.recordLoginAttempt(input.Email, ipAddress, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
		return
	}

	if !profile.CheckPassword(input.Password) {
		h.recordLoginAttempt(input.Email, ipAddress, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
		return
	}

	token, err := h.authMiddleware.GenerateToken(profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el token"})
		return
	}

	h.recordLoginAttempt(input.Email, ipAddress, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"profile": gin.H{
			"id":        profile.ID,
			"email":     profile.Email,
			"full_name": profile.FullName,
			"role":      profile.Role,
		},
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	profile, exists := c.Get("profile")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión no iniciada"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña actual y nueva son obligatorias"})
		return
	}

	if err := validatePasswordStrength(input.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profileInterface, exists := c.Get("profile")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sesión no iniciada"})
		return
	}

	profile := profileInterface.(models.Profile)

	if !profile.CheckPassword(input.OldPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "La contraseña actual es incorrecta"})
		return
	}

	profile.Password = input.NewPassword

	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la contraseña"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada correctamente"})
}

func (h *AuthHandler) recordLoginAttempt(email, ipAddress string, success bool) {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	attempt := loginAttempt{
		email:     email,
		ipAddress: ipAddress,
		timestamp: time.Now(),
		success:   success,
	}
	h.loginAttempts = append(h.loginAttempts, attempt)

	if success {
		delete(h.blockedIPs, ipAddress)
		delete(h.blockedEmails, email)
		return
	}

	cutoffTime := time.Now().Add(-h.rateLimitWindow)
	newAttempts := []loginAttempt{}
	for _, a := range h.loginAttempts {
		if a.timestamp.After(cutoffTime) {
			newAttempts = append(newAttempts, a)
		}
	}
	h.loginAttempts = newAttempts

	ipFailures := 0
	emailFailures := 0
	for _, a := range h.loginAttempts {
		if !a.success {
			if a.ipAddress == ipAddress {
				ipFailures++
			}
			if a.email == email {
				emailFailures++
			}
		}
	}

	if ipFailures >= h.maxLoginAttempts {
		h.blockedIPs[ipAddress] = time.Now().Add(h.blockDuration)
	}

	if emailFailures >= h.maxLoginAttempts {
		h.blockedEmails[email] = time.Now().Add(h.blockDuration)
	}
}

func (h *AuthHandler) isIPBlocked(ipAddress string) bool {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	blockUntil, exists := h.blockedIPs[ipAddress]
	if !exists {
		return false
	}

	if time.Now().After(blockUntil) {
		delete(h.blockedIPs, ipAddress)
		return false
	}

	return true
}

func (h *AuthHandler) isEmailBlocked(email string) bool {
	h.attemptsMutex.Lock()
	defer h.attemptsMutex.Unlock()

	blockUntil, exists := h.blockedEmails[email]
	if !exists {
		return false
	}

	if time.Now().After(blockUntil) {
		delete(h.blockedEmails, email)
		return false
	}

	return true
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("la contraseña debe tener al menos 8 caracteres")
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasUpper {
		return errors.New("la contraseña debe contener al menos una mayúscula")
	}
	if !hasLower {
		return errors.New("la contraseña debe contener al menos una minúscula")
	}
	if !hasDigit {
		return errors.New("la contraseña debe contener al menos un número")
	}

	return nil
}
