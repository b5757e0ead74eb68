package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/middleware"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/services"
)

type PersonnelHandler struct {
	db        *gorm.DB
	personnel *services.PersonnelService
}

func NewPersonnelHandler(db *gorm.DB, personnel *services.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{db: db, personnel: personnel}
}

// personView is the read model served to the UI: the stored status travels
// as status_raw and the derived one as status, recomputed on every fetch.
type personView struct {
	models.Person
	Name      string `json:"name"`
	StatusRaw string `json:"status_raw"`
	Display   string `json:"status_display"`
}

func toPersonView(p models.Person) personView {
	return personView{
		Person:    p,
		Name:      p.FullName(),
		StatusRaw: string(p.Status),
		Display:   p.DisplayStatus(),
	}
}

func (h *PersonnelHandler) GetPersonnel(c *gin.Context) {
	personnel, err := h.personnel.FetchAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el personal"})
		return
	}

	views := make([]personView, 0, len(personnel))
	for _, p := range personnel {
		views = append(views, toPersonView(p))
	}

	c.JSON(http.StatusOK, views)
}

func (h *PersonnelHandler) GetPerson(c *gin.Context) {
	person, err := h.personnel.Fetch(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Persona no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la persona"})
		}
		return
	}

	c.JSON(http.StatusOK, toPersonView(*person))
}

func (h *PersonnelHandler) SavePerson(c *gin.Context) {
	var input struct {
		ID              string              `json:"id"`
		FirstName       string              `json:"first_name" binding:"required"`
		LastName        string              `json:"last_name" binding:"required"`
		EmployeeNo      string              `json:"employee_no" binding:"required"`
		Email           string              `json:"email"`
		Area            string              `json:"area"`
		Position        string              `json:"position"`
		Floor           string              `json:"floor"`
		BuildingID      *string             `json:"building_id"`
		DependencyID    *string             `json:"dependency_id"`
		ScheduleID      *string             `json:"schedule_id"`
		EntryTime       string              `json:"entry_time"`
		ExitTime        string              `json:"exit_time"`
		FloorsP2000     []string            `json:"floors_p2000"`
		FloorsKone      []string            `json:"floors_kone"`
		SpecialAccesses []string            `json:"special_accesses"`
		Status          models.PersonStatus `json:"status"`
		Cards           []services.CardRef  `json:"cards"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Por favor verifique la información ingresada."})
		return
	}

	person, err := h.personnel.WithActor(middleware.CurrentProfileID(c)).Save(services.PersonInput{
		ID:              input.ID,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		EmployeeNo:      input.EmployeeNo,
		Email:           input.Email,
		Area:            input.Area,
		Position:        input.Position,
		Floor:           input.Floor,
		BuildingID:      input.BuildingID,
		DependencyID:    input.DependencyID,
		ScheduleID:      input.ScheduleID,
		EntryTime:       input.EntryTime,
		ExitTime:        input.ExitTime,
		FloorsP2000:     input.FloorsP2000,
		FloorsKone:      input.FloorsKone,
		SpecialAccesses: input.SpecialAccesses,
		Status:          input.Status,
		Cards:           input.Cards,
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Persona no encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": translateConstraintError(err, "No se pudo guardar la persona. El número de empleado podría estar duplicado.")})
		return
	}

	status := http.StatusOK
	if input.ID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, person)
}

func (h *PersonnelHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status models.PersonStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos. Se requiere el nuevo estado."})
		return
	}

	switch input.Status {
	case models.PersonStatusActive, models.PersonStatusBlocked, models.PersonStatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de persona inválido"})
		return
	}

	if err := h.personnel.WithActor(middleware.CurrentProfileID(c)).UpdateStatus(c.Param("id"), input.Status); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Persona no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el estado"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estado actualizado correctamente"})
}

func (h *PersonnelHandler) DeletePerson(c *gin.Context) {
	if err := h.personnel.WithActor(middleware.CurrentProfileID(c)).Delete(c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Persona no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar a la persona"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registro eliminado correctamente"})
}
