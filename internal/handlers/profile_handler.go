package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/services"
)

type ProfileHandler struct {
	db      *gorm.DB
	history *services.HistoryService
}

func NewProfileHandler(db *gorm.DB, history *services.HistoryService) *ProfileHandler {
	return &ProfileHandler{db: db, history: history}
}

func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := h.db.Order("full_name").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los perfiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var input struct {
		Email    string      `json:"email" binding:"required,email"`
		Password string      `json:"password" binding:"required"`
		FullName string      `json:"full_name" binding:"required"`
		Role     models.Role `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Correo, contraseña y nombre son obligatorios."})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	switch role {
	case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	profile := models.Profile{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     role,
	}

	if err := h.db.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": translateConstraintError(err, "Ya existe un perfil con ese correo")})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        profile.ID,
		"email":     profile.Email,
		"full_name": profile.FullName,
		"role":      profile.Role,
	})
}

func (h *ProfileHandler) UpdateRole(c *gin.Context) {
	var input struct {
		Role models.Role `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el nuevo rol."})
		return
	}

	switch input.Role {
	case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfil no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el perfil"})
		}
		return
	}

	previous := profile.Role
	if err := h.db.Model(&profile).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el rol"})
		return
	}

	h.history.Log(models.EntitySystem, profile.ID, models.ActionUpdateRole,
		fmt.Sprintf("Rol de %s cambiado de %s a %s", profile.Email, previous, input.Role), middleware.CurrentProfileID(c))

	c.JSON(http.StatusOK, gin.H{"message": "Rol actualizado correctamente"})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	if id, exists := c.Get("profileID"); exists && id == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No puede eliminar su propio perfil"})
		return
	}

	result := h.db.Delete(&models.Profile{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el perfil"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Perfil no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Perfil eliminado correctamente"})
}
