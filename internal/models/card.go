package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardType string

const (
	CardTypeP2000 CardType = "P2000"
	CardTypeKone  CardType = "KONE"
)

type CardStatus string

const (
	CardStatusAvailable CardStatus = "available"
	CardStatusActive    CardStatus = "active"
	CardStatusBlocked   CardStatus = "blocked"
	CardStatusInactive  CardStatus = "inactive"
)

type ProgrammingStatus string

const (
	ProgrammingPending ProgrammingStatus = "pending"
	ProgrammingDone    ProgrammingStatus = "done"
)

type ResponsivaStatus string

const (
	ResponsivaUnsigned ResponsivaStatus = "unsigned"
	ResponsivaSigned   ResponsivaStatus = "signed"
)

type Card struct {
	ID        string    `gorm:"type:text;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// A folio is unique within its card family, not globally.
	Folio string   `gorm:"not null;uniqueIndex:idx_cards_folio_type" json:"folio"`
	Type  CardType `gorm:"not null;uniqueIndex:idx_cards_folio_type" json:"type"`

	Status CardStatus `gorm:"not null;default:'available'" json:"status"`

	PersonID *string `gorm:"index" json:"person_id"`
	Person   *Person `json:"person,omitempty"`

	ProgrammingStatus *ProgrammingStatus `json:"programming_status"`
	ResponsivaStatus  *ResponsivaStatus  `json:"responsiva_status"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsReady reports whether the card is fully operational: active, programmed
// and with its responsiva signed.
func (c *Card) IsReady() bool {
	return c.Status == CardStatusActive &&
		c.ProgrammingStatus != nil && *c.ProgrammingStatus == ProgrammingDone &&
		c.ResponsivaStatus != nil && *c.ResponsivaStatus == ResponsivaSigned
}

func (c *Card) IsAssigned() bool {
	return c.PersonID != nil && *c.PersonID != ""
}
