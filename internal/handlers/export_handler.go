package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarcosAvg/nexa/internal/export"
	"github.com/MarcosAvg/nexa/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	personnel *services.PersonnelService
	history   *services.HistoryService
}

func NewExportHandler(personnel *services.PersonnelService, history *services.HistoryService) *ExportHandler {
	return &ExportHandler{personnel: personnel, history: history}
}

func (h *ExportHandler) ExportPersonnel(c *gin.Context) {
	personnel, err := h.personnel.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el personal"})
		return
	}

	data, err := export.GeneratePersonnelReport(personnel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el reporte"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName("personal"))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) ExportHistory(c *gin.Context) {
	logs, err := h.history.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el historial"})
		return
	}

	data, err := export.GenerateHistoryReport(logs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el reporte"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName("historial"))
	c.Data(http.StatusOK, xlsxContentType, data)
}
