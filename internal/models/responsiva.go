package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignedResponsiva is the stored record of a signed liability waiver for a
// card. The legal hash binds the form data, the signature and the legal text
// in force at signing time, so later edits to any of them are detectable.
type SignedResponsiva struct {
	ID        string    `gorm:"type:text;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PersonID string `gorm:"index;not null" json:"person_id"`

	Folio    string   `gorm:"not null" json:"folio"`
	CardType CardType `gorm:"not null" json:"card_type"`

	Data      JSONMap `gorm:"type:text" json:"data"`
	Signature string  `gorm:"not null" json:"signature"`

	LegalHash     string `json:"legal_hash,omitempty"`
	LegalSnapshot string `json:"legal_snapshot,omitempty"`
}

func (r *SignedResponsiva) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
