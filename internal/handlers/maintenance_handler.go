package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarcosAvg/nexa/internal/services"
)

// MaintenanceHandler hosts the repair endpoints. They are idempotent and
// meant for cron jobs or manual recovery, hence the API-key gate.
type MaintenanceHandler struct {
	tickets *services.TicketService
}

func NewMaintenanceHandler(tickets *services.TicketService) *MaintenanceHandler {
	return &MaintenanceHandler{tickets: tickets}
}

// SyncTickets reconciles the system tickets of every assigned card with the
// card's current programming and signature state.
func (h *MaintenanceHandler) SyncTickets(c *gin.Context) {
	changed, err := h.tickets.SyncSystemTickets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo sincronizar los tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sincronización de tickets completada",
		"changed": changed,
	})
}
