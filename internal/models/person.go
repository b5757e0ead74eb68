package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusBlocked  PersonStatus = "blocked"
	PersonStatusInactive PersonStatus = "inactive"
)

// Displayed statuses shown to operators. Derived from the stored status plus
// the readiness of the owned cards, never persisted.
const (
	DisplayBaja      = "Baja"
	DisplayActivo    = "Activo/a"
	DisplayInactivo  = "Inactivo/a"
	DisplayParcial   = "Parcial"
	DisplayBloqueado = "Bloqueado/a"
)

// StringList is stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("tipo no soportado para StringList")
	}
}

type Person struct {
	ID        string    `gorm:"type:text;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	EmployeeNo string `gorm:"uniqueIndex;not null" json:"employee_no"`
	Email      string `json:"email,omitempty"`

	BuildingID   *string `json:"building_id"`
	DependencyID *string `json:"dependency_id"`
	ScheduleID   *string `json:"schedule_id"`

	Building   *Building   `json:"building,omitempty"`
	Dependency *Dependency `json:"dependency,omitempty"`
	Schedule   *Schedule   `json:"schedule,omitempty"`

	Area     string `json:"area,omitempty"`
	Position string `json:"position,omitempty"`
	Floor    string `json:"floor,omitempty"`

	EntryTime string `json:"entry_time,omitempty"`
	ExitTime  string `json:"exit_time,omitempty"`

	FloorsP2000     StringList `gorm:"type:text" json:"floors_p2000"`
	FloorsKone      StringList `gorm:"type:text" json:"floors_kone"`
	SpecialAccesses StringList `gorm:"type:text" json:"special_accesses"`

	Status PersonStatus `gorm:"not null;default:'active'" json:"status"`

	Cards []Card `gorm:"foreignKey:PersonID" json:"cards,omitempty"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// DisplayStatus derives the status shown in listings. It is a pure function
// of the stored status and the owned cards' sub-statuses and must be
// recomputed from a fresh card list on every read.
func (p *Person) DisplayStatus() string {
	switch p.Status {
	case PersonStatusBlocked:
		return DisplayBloqueado
	case PersonStatusActive:
		if len(p.Cards) == 0 {
			return DisplayInactivo
		}
		ready := 0
		for _, card := range p.Cards {
			if card.IsReady() {
				ready++
			}
		}
		switch ready {
		case 0:
			return DisplayInactivo
		case len(p.Cards):
			return DisplayActivo
		default:
			return DisplayParcial
		}
	default:
		return DisplayBaja
	}
}
