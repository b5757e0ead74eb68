package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/services"
)

type CardHandler struct {
	db    *gorm.DB
	cards *services.CardService
}

func NewCardHandler(db *gorm.DB, cards *services.CardService) *CardHandler {
	return &CardHandler{db: db, cards: cards}
}

func (h *CardHandler) GetCards(c *gin.Context) {
	var cards []models.Card
	query := h.db.Preload("Person")

	if cardType := c.Query("type"); cardType != "" {
		query = query.Where("type = ?", cardType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("folio").Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las tarjetas"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) GetUnassignedCards(c *gin.Context) {
	cards, err := h.cards.FetchUnassigned(models.CardType(c.Query("type")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las tarjetas disponibles"})
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *CardHandler) SaveCard(c *gin.Context) {
	var input struct {
		Folio             string                    `json:"folio" binding:"required"`
		Type              models.CardType           `json:"type" binding:"required"`
		PersonID          *string                   `json:"person_id"`
		Status            models.CardStatus         `json:"status"`
		ProgrammingStatus *models.ProgrammingStatus `json:"programming_status"`
		ResponsivaStatus  *models.ResponsivaStatus  `json:"responsiva_status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Folio y tipo son obligatorios."})
		return
	}

	if input.Type != models.CardTypeP2000 && input.Type != models.CardTypeKone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de tarjeta inválido"})
		return
	}

	card, err := h.cards.WithActor(middleware.CurrentProfileID(c)).Save(services.CardInput{
		Folio:             input.Folio,
		Type:              input.Type,
		PersonID:          input.PersonID,
		Status:            input.Status,
		ProgrammingStatus: input.ProgrammingStatus,
		ResponsivaStatus:  input.ResponsivaStatus,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": translateConstraintError(err, "Ya existe una tarjeta con ese folio y tipo")})
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *CardHandler) UpdateProgrammingStatus(c *gin.Context) {
	var input struct {
		ProgrammingStatus models.ProgrammingStatus `json:"programming_status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el estado de programación."})
		return
	}

	if input.ProgrammingStatus != models.ProgrammingPending && input.ProgrammingStatus != models.ProgrammingDone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de programación inválido"})
		return
	}

	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).UpdateProgrammingStatus(c.Param("id"), input.ProgrammingStatus); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estado de programación actualizado"})
}

func (h *CardHandler) UpdateResponsivaStatus(c *gin.Context) {
	var input struct {
		ResponsivaStatus models.ResponsivaStatus `json:"responsiva_status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el estado de responsiva."})
		return
	}

	if input.ResponsivaStatus != models.ResponsivaUnsigned && input.ResponsivaStatus != models.ResponsivaSigned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de responsiva inválido"})
		return
	}

	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).UpdateResponsivaStatus(c.Param("id"), input.ResponsivaStatus); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estado de responsiva actualizado"})
}

func (h *CardHandler) UpdateCardStatus(c *gin.Context) {
	var input struct {
		Status models.CardStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el nuevo estado."})
		return
	}

	switch input.Status {
	case models.CardStatusAvailable, models.CardStatusActive, models.CardStatusBlocked, models.CardStatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de tarjeta inválido"})
		return
	}

	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).UpdateStatus(c.Param("id"), input.Status); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estado de tarjeta actualizado"})
}

func (h *CardHandler) UnassignCard(c *gin.Context) {
	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).Unassign(c.Param("id")); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarjeta desvinculada correctamente"})
}

func (h *CardHandler) DeactivateCard(c *gin.Context) {
	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).Deactivate(c.Param("id")); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarjeta dada de baja correctamente"})
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	if err := h.cards.WithActor(middleware.CurrentProfileID(c)).Delete(c.Param("id")); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarjeta eliminada correctamente"})
}

func respondCardError(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tarjeta no encontrada"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la tarjeta"})
}
