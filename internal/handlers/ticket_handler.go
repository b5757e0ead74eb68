package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/services"
)

type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.tickets.FetchAll(models.TicketStatus(c.Query("status")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los tickets"})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var input struct {
		Type        string         `json:"type" binding:"required"`
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Priority    string         `json:"priority"`
		PersonID    *string        `json:"person_id"`
		CardID      *string        `json:"card_id"`
		Payload     models.JSONMap `json:"payload"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. El tipo de ticket es obligatorio."})
		return
	}

	ticket, err := h.tickets.WithActor(middleware.CurrentProfileID(c)).Create(services.TicketInput{
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		PersonID:    input.PersonID,
		CardID:      input.CardID,
		Payload:     input.Payload,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el ticket"})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) UpdateTicketStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de ticket inválido"})
		return
	}

	var input struct {
		Status models.TicketStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el nuevo estado."})
		return
	}

	if input.Status != models.TicketStatusPending && input.Status != models.TicketStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de ticket inválido"})
		return
	}

	if err := h.tickets.WithActor(middleware.CurrentProfileID(c)).UpdateStatus(uint(id), input.Status); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el ticket"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket actualizado correctamente"})
}

func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identificador de ticket inválido"})
		return
	}

	if err := h.tickets.WithActor(middleware.CurrentProfileID(c)).Delete(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el ticket"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket eliminado correctamente"})
}
