package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/services"
)

type ResponsivaHandler struct {
	responsivas *services.ResponsivaService
}

func NewResponsivaHandler(responsivas *services.ResponsivaService) *ResponsivaHandler {
	return &ResponsivaHandler{responsivas: responsivas}
}

func (h *ResponsivaHandler) GetPersonResponsivas(c *gin.Context) {
	responsivas, err := h.responsivas.FetchByPerson(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las responsivas"})
		return
	}

	c.JSON(http.StatusOK, responsivas)
}

func (h *ResponsivaHandler) SignResponsiva(c *gin.Context) {
	var input struct {
		PersonID      string          `json:"person_id" binding:"required"`
		Folio         string          `json:"folio" binding:"required"`
		CardType      models.CardType `json:"card_type" binding:"required"`
		Data          models.JSONMap  `json:"data"`
		Signature     string          `json:"signature" binding:"required"`
		LegalSnapshot string          `json:"legal_snapshot"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Persona, folio, tipo y firma son obligatorios."})
		return
	}

	responsiva, err := h.responsivas.WithActor(middleware.CurrentProfileID(c)).Save(services.ResponsivaInput{
		PersonID:      input.PersonID,
		Folio:         input.Folio,
		CardType:      input.CardType,
		Data:          input.Data,
		Signature:     input.Signature,
		LegalSnapshot: input.LegalSnapshot,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar la responsiva"})
		return
	}

	c.JSON(http.StatusCreated, responsiva)
}

func (h *ResponsivaHandler) DeleteResponsiva(c *gin.Context) {
	err := h.responsivas.WithActor(middleware.CurrentProfileID(c)).Delete(c.Param("id"), c.Query("person_id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Responsiva no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar la responsiva"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Responsiva eliminada correctamente"})
}
