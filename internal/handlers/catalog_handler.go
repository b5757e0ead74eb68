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

// CatalogHandler serves the selection-list entities: dependencies,
// buildings, special accesses and schedules. The kind travels in the URL.
type CatalogHandler struct {
	db      *gorm.DB
	history *services.HistoryService
}

func NewCatalogHandler(db *gorm.DB, history *services.HistoryService) *CatalogHandler {
	return &CatalogHandler{db: db, history: history}
}

func catalogModel(kind string) (interface{}, string) {
	switch kind {
	case "dependencies":
		return &[]models.Dependency{}, "Dependencia"
	case "buildings":
		return &[]models.Building{}, "Edificio"
	case "special-accesses":
		return &[]models.SpecialAccess{}, "Acceso especial"
	case "schedules":
		return &[]models.Schedule{}, "Horario"
	default:
		return nil, ""
	}
}

func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	list, _ := catalogModel(c.Param("kind"))
	if list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catálogo no encontrado"})
		return
	}

	if err := h.db.Order("name").Find(list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el catálogo"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) CreateCatalogItem(c *gin.Context) {
	kind := c.Param("kind")
	if list, _ := catalogModel(kind); list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catálogo no encontrado"})
		return
	}

	var input struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		DefaultEntry string `json:"default_entry"`
		DefaultExit  string `json:"default_exit"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. El nombre es obligatorio."})
		return
	}

	item, err := h.createItem(kind, input.Name, input.Description, input.DefaultEntry, input.DefaultExit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": translateConstraintError(err, "Ya existe un elemento con ese nombre")})
		return
	}

	h.history.Log(models.EntitySystem, "", models.ActionCreateCatalog,
		fmt.Sprintf("Elemento de catálogo creado (%s): %s", kind, input.Name), middleware.CurrentProfileID(c))

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) createItem(kind, name, description, defaultEntry, defaultExit string) (interface{}, error) {
	switch kind {
	case "dependencies":
		item := models.Dependency{Name: name}
		return &item, h.db.Create(&item).Error
	case "buildings":
		item := models.Building{Name: name}
		return &item, h.db.Create(&item).Error
	case "special-accesses":
		item := models.SpecialAccess{Name: name, Description: description}
		return &item, h.db.Create(&item).Error
	default: // schedules, kind already validated
		item := models.Schedule{Name: name, DefaultEntry: defaultEntry, DefaultExit: defaultExit}
		if item.DefaultEntry == "" {
			item.DefaultEntry = "09:00"
		}
		if item.DefaultExit == "" {
			item.DefaultExit = "18:00"
		}
		return &item, h.db.Create(&item).Error
	}
}

func (h *CatalogHandler) UpdateCatalogItem(c *gin.Context) {
	kind := c.Param("kind")
	if list, _ := catalogModel(kind); list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catálogo no encontrado"})
		return
	}

	var input struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		DefaultEntry string `json:"default_entry"`
		DefaultExit  string `json:"default_exit"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. El nombre es obligatorio."})
		return
	}

	updates := map[string]interface{}{"name": input.Name}
	if kind == "special-accesses" {
		updates["description"] = input.Description
	}
	if kind == "schedules" {
		if input.DefaultEntry != "" {
			updates["default_entry"] = input.DefaultEntry
		}
		if input.DefaultExit != "" {
			updates["default_exit"] = input.DefaultExit
		}
	}

	result := h.db.Model(catalogItem(kind)).Where("id = ?", c.Param("id")).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": translateConstraintError(result.Error, "Ya existe un elemento con ese nombre")})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Elemento no encontrado"})
		return
	}

	h.history.Log(models.EntitySystem, "", models.ActionUpdateCatalog,
		fmt.Sprintf("Elemento de catálogo actualizado (%s): %s", kind, input.Name), middleware.CurrentProfileID(c))

	c.JSON(http.StatusOK, gin.H{"message": "Elemento actualizado correctamente"})
}

func (h *CatalogHandler) DeleteCatalogItem(c *gin.Context) {
	kind := c.Param("kind")
	if list, _ := catalogModel(kind); list == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catálogo no encontrado"})
		return
	}

	result := h.db.Where("id = ?", c.Param("id")).Delete(catalogItem(kind))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el elemento"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Elemento no encontrado"})
		return
	}

	h.history.Log(models.EntitySystem, "", models.ActionDeleteCatalog,
		fmt.Sprintf("Elemento de catálogo eliminado (%s): %s", kind, c.Param("id")), middleware.CurrentProfileID(c))

	c.JSON(http.StatusOK, gin.H{"message": "Elemento eliminado correctamente"})
}

func catalogItem(kind string) interface{} {
	switch kind {
	case "dependencies":
		return &models.Dependency{}
	case "buildings":
		return &models.Building{}
	case "special-accesses":
		return &models.SpecialAccess{}
	default:
		return &models.Schedule{}
	}
}
