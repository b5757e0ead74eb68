package models

import "time"

// System-managed ticket types. Free-form types are allowed for user-created
// tickets; these two are created and resolved by the card lifecycle rules.
const (
	TicketTypeProgramming = "Programación de Acceso"
	TicketTypeResponsiva  = "Firma Responsiva"
)

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusCompleted TicketStatus = "completed"
)

const (
	TicketPriorityAlta  = "Alta"
	TicketPriorityMedia = "Media"
	TicketPriorityBaja  = "Baja"
)

type Ticket struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"not null" json:"title"`
	Type        string `gorm:"not null;index" json:"type"`
	Description string `json:"description"`
	Priority    string `gorm:"not null;default:'Media'" json:"priority"`

	Status TicketStatus `gorm:"not null;default:'pending';index" json:"status"`

	PersonID *string `gorm:"index" json:"person_id"`
	Person   *Person `json:"person,omitempty"`

	CardID *string `gorm:"index" json:"card_id"`
	Card   *Card   `json:"card,omitempty"`

	Payload JSONMap `gorm:"type:text" json:"payload"`
}

// IsSystemGenerated reports whether the ticket was opened by the lifecycle
// rules rather than by an operator.
func (t *Ticket) IsSystemGenerated() bool {
	if t.Payload == nil {
		return false
	}
	flag, ok := t.Payload["isSystemGenerated"].(bool)
	return ok && flag
}
