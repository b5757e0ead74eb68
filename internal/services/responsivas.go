package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/utils"
)

// ResponsivaService stores signed liability waivers and keeps the owning
// card's responsiva state in sync with them.
type ResponsivaService struct {
	db      *gorm.DB
	history *HistoryService
	cards   *CardService
	log     *zap.Logger
}

func NewResponsivaService(db *gorm.DB, history *HistoryService, cards *CardService, log *zap.Logger) *ResponsivaService {
	return &ResponsivaService{db: db, history: history, cards: cards, log: log}
}

// WithActor returns a copy whose audit records, including the card sync it
// triggers, are attributed to the given profile.
func (s *ResponsivaService) WithActor(actor *string) *ResponsivaService {
	clone := *s
	clone.history = s.history.WithActor(actor)
	clone.cards = s.cards.WithActor(actor)
	return &clone
}

type ResponsivaInput struct {
	PersonID      string
	Folio         string
	CardType      models.CardType
	Data          models.JSONMap
	Signature     string
	LegalSnapshot string
}

// Save stores the signed waiver with its legal hash and marks the matching
// card as signed, which in turn closes the pending signature ticket.
func (s *ResponsivaService) Save(input ResponsivaInput) (*models.SignedResponsiva, error) {
	if input.PersonID == "" || input.Folio == "" || input.Signature == "" {
		return nil, fmt.Errorf("persona, folio y firma son obligatorios")
	}

	hash, err := utils.GenerateLegalHash(input.Data, input.Signature, input.LegalSnapshot)
	if err != nil {
		return nil, fmt.Errorf("calcular hash legal: %w", err)
	}

	responsiva := models.SignedResponsiva{
		PersonID:      input.PersonID,
		Folio:         input.Folio,
		CardType:      input.CardType,
		Data:          input.Data,
		Signature:     input.Signature,
		LegalHash:     hash,
		LegalSnapshot: input.LegalSnapshot,
	}
	if err := s.db.Create(&responsiva).Error; err != nil {
		return nil, fmt.Errorf("guardar responsiva: %w", err)
	}

	s.history.Log(models.EntityPersonnel, input.PersonID, models.ActionSignResponsiva,
		models.JSONMap{
			"message":       fmt.Sprintf("Responsiva firmada para tarjeta %s", input.Folio),
			"responsiva_id": responsiva.ID,
		}, nil)

	var card models.Card
	err = s.db.
		Where("folio = ? AND type = ? AND person_id = ?", input.Folio, input.CardType, input.PersonID).
		First(&card).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		// Waiver signed for a card not currently assigned to the person;
		// keep the document, there is no card state to sync.
	case err != nil:
		return nil, fmt.Errorf("buscar tarjeta de la responsiva: %w", err)
	default:
		if err := s.cards.UpdateResponsivaStatus(card.ID, models.ResponsivaSigned); err != nil {
			return nil, err
		}
	}

	return &responsiva, nil
}

// Delete removes a stored waiver. The card's responsiva state is left
// untouched; revoking a signature is an explicit card operation.
func (s *ResponsivaService) Delete(id, personID string) error {
	result := s.db.Delete(&models.SignedResponsiva{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("eliminar responsiva: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.history.Log(models.EntityPersonnel, personID, models.ActionDeleteResponsiva,
		"Responsiva eliminada", nil)
	return nil
}

// FetchByPerson lists a person's signed waivers, newest first.
func (s *ResponsivaService) FetchByPerson(personID string) ([]models.SignedResponsiva, error) {
	var responsivas []models.SignedResponsiva
	if err := s.db.
		Where("person_id = ?", personID).
		Order("created_at DESC").
		Find(&responsivas).Error; err != nil {
		return nil, err
	}
	return responsivas, nil
}
