package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/utils"
)

type HistoryHandler struct {
	db           *gorm.DB
	statsService *utils.StatisticsService
}

func NewHistoryHandler(db *gorm.DB) *HistoryHandler {
	return &HistoryHandler{
		db:           db,
		statsService: utils.NewStatisticsService(db),
	}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	var logs []models.HistoryLog

	query := h.db.Model(&models.HistoryLog{})

	if entityType := c.Query("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}

	if entityID := c.Query("entity_id"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	if startDate := c.Query("start_date"); startDate != "" {
		query = query.Where("timestamp >= ?", startDate+" 00:00:00")
	}
	if endDate := c.Query("end_date"); endDate != "" {
		query = query.Where("timestamp <= ?", endDate+" 23:59:59")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if limitNum, err := strconv.Atoi(limitStr); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}

	page := 0
	if pageStr := c.Query("page"); pageStr != "" {
		if pageNum, err := strconv.Atoi(pageStr); err == nil && pageNum > 0 {
			page = pageNum - 1
		}
	}

	if err := query.Order("timestamp DESC").Limit(limit).Offset(page * limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el historial"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *HistoryHandler) GetEntityHistory(c *gin.Context) {
	var logs []models.HistoryLog

	if err := h.db.
		Where("entity_type = ? AND entity_id = ?", c.Param("type"), c.Param("id")).
		Order("timestamp DESC").
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el historial de la entidad"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// GetActionNames exposes the display names of the audited actions so the UI
// can render the history without hard-coding the vocabulary.
func (h *HistoryHandler) GetActionNames(c *gin.Context) {
	c.JSON(http.StatusOK, models.ActionNames)
}

func (h *HistoryHandler) GetPersonnelStats(c *gin.Context) {
	stats, err := h.statsService.GetPersonnelStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las estadísticas de personal"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *HistoryHandler) GetCardStats(c *gin.Context) {
	stats, err := h.statsService.GetCardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las estadísticas de tarjetas"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *HistoryHandler) GetTicketStats(c *gin.Context) {
	stats, err := h.statsService.GetTicketStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener las estadísticas de tickets"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *HistoryHandler) GetActivityTimeSeries(c *gin.Context) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -7)

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if t, err := time.Parse("2006-01-02", startDateStr); err == nil {
			startDate = t
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if t, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = t.Add(24*time.Hour - time.Second)
		}
	}

	interval := c.DefaultQuery("interval", "day")

	data, err := h.statsService.GetActivityTimeSeries(interval, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los datos de actividad"})
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *HistoryHandler) GetMostActiveUsers(c *gin.Context) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, -1, 0)

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if t, err := time.Parse("2006-01-02", startDateStr); err == nil {
			startDate = t
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if t, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = t.Add(24*time.Hour - time.Second)
		}
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	users, err := h.statsService.GetMostActiveUsers(limit, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron obtener los usuarios más activos"})
		return
	}

	c.JSON(http.StatusOK, users)
}
