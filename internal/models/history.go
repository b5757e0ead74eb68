package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type EntityType string

const (
	EntityPersonnel EntityType = "PERSONNEL"
	EntityCard      EntityType = "CARD"
	EntityTicket    EntityType = "TICKET"
	EntitySystem    EntityType = "SYSTEM"
)

// Action codes form a closed vocabulary: the UI maps them to display names
// and colors, so new codes must be added here, not invented at call sites.
const (
	ActionCreate             = "CREATE"
	ActionUpdate             = "UPDATE"
	ActionDelete             = "DELETE"
	ActionBlock              = "BLOCK"
	ActionActivate           = "ACTIVATE"
	ActionDeactivate         = "DEACTIVATE"
	ActionAssignCard         = "ASSIGN_CARD"
	ActionUnassignCard       = "UNASSIGN_CARD"
	ActionSignResponsiva     = "SIGN_RESPONSIVA"
	ActionDeleteResponsiva   = "DELETE_RESPONSIVA"
	ActionUpsert             = "UPSERT"
	ActionUpdateStatus       = "UPDATE_STATUS"
	ActionUnassign           = "UNASSIGN"
	ActionUpdateProgramming  = "UPDATE_PROGRAMMING"
	ActionUpdateResponsiva   = "UPDATE_RESPONSIVA"
	ActionReplaceCard        = "REPLACE_CARD"
	ActionTicket             = "TICKET"
	ActionCreateTicket       = "CREATE_TICKET"
	ActionCompleteTicket     = "COMPLETE_TICKET"
	ActionApplyModification  = "APPLY_MODIFICATION"
	ActionRejectModification = "REJECT_MODIFICATION"
	ActionUpdateRole         = "UPDATE_ROLE"
	ActionCreateCatalog      = "CREATE_CATALOG"
	ActionUpdateCatalog      = "UPDATE_CATALOG"
	ActionDeleteCatalog      = "DELETE_CATALOG"
)

var ActionNames = map[string]string{
	ActionCreate:             "Registro de Personal",
	ActionUpdate:             "Actualización de Datos",
	ActionDelete:             "Eliminación Permanente",
	ActionBlock:              "Bloqueo de Acceso",
	ActionActivate:           "Activación de Acceso",
	ActionDeactivate:         "Desactivación de Personal",
	ActionAssignCard:         "Asignación de Tarjeta",
	ActionUnassignCard:       "Desvinculación de Tarjeta",
	ActionSignResponsiva:     "Firma de Responsiva",
	ActionDeleteResponsiva:   "Eliminación de Responsiva",
	ActionUpsert:             "Guardado/Actualización",
	ActionUpdateStatus:       "Cambio de Estado",
	ActionUnassign:           "Desvinculación",
	ActionUpdateProgramming:  "Programación de Acceso",
	ActionUpdateResponsiva:   "Estatus de Responsiva",
	ActionReplaceCard:        "Reposición de Tarjeta",
	ActionTicket:             "Ticket de Sistema",
	ActionCreateTicket:       "Creación de Ticket",
	ActionCompleteTicket:     "Ticket Completado",
	ActionApplyModification:  "Modificación Aprobada",
	ActionRejectModification: "Modificación Rechazada",
	ActionUpdateRole:         "Cambio de Rol",
	ActionCreateCatalog:      "Catálogo Creado",
	ActionUpdateCatalog:      "Catálogo Actualizado",
	ActionDeleteCatalog:      "Catálogo Eliminado",
}

// JSONMap is stored as a JSON object in a text column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("tipo no soportado para JSONMap")
	}
}

// HistoryLog is append-only. EntityID is a plain string with no foreign key
// so the trail survives the deletion of the entity it describes.
type HistoryLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	EntityType EntityType `gorm:"not null;index" json:"entity_type"`
	EntityID   *string    `gorm:"index" json:"entity_id"`

	Action  string  `gorm:"not null" json:"action"`
	Details JSONMap `gorm:"type:text" json:"details"`

	PerformedBy *string `json:"performed_by"`
}
