package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/websocket"
)

// CardService keeps a card's lifecycle sub-statuses and its generated
// tickets consistent on every mutation.
type CardService struct {
	db        *gorm.DB
	history   *HistoryService
	tickets   *TicketService
	log       *zap.Logger
	wsHandler *websocket.WebSocketHandler
	wsEnabled bool
}

func NewCardService(db *gorm.DB, history *HistoryService, tickets *TicketService, log *zap.Logger) *CardService {
	return &CardService{db: db, history: history, tickets: tickets, log: log}
}

func (s *CardService) SetWebSocketHandler(wsHandler *websocket.WebSocketHandler) {
	s.wsHandler = wsHandler
	s.wsEnabled = (wsHandler != nil)
}

// WithActor returns a copy whose audit records, including those of the
// ticket bookkeeping it triggers, are attributed to the given profile.
func (s *CardService) WithActor(actor *string) *CardService {
	clone := *s
	clone.history = s.history.WithActor(actor)
	clone.tickets = s.tickets.WithActor(actor)
	return &clone
}

type CardInput struct {
	Folio             string
	Type              models.CardType
	Status            models.CardStatus
	PersonID          *string
	ProgrammingStatus *models.ProgrammingStatus
	ResponsivaStatus  *models.ResponsivaStatus
}

// Save upserts a card by (folio, type). A new assignment, where the person
// reference goes from empty to set, forces programming to pending and
// responsiva to unsigned regardless of the input, the work has not been done
// yet. After persisting it re-evaluates the system tickets for the card.
func (s *CardService) Save(input CardInput) (*models.Card, error) {
	if input.Folio == "" || input.Type == "" {
		return nil, fmt.Errorf("folio y tipo de tarjeta son obligatorios")
	}

	var existing models.Card
	err := s.db.Where("folio = ? AND type = ?", input.Folio, input.Type).First(&existing).Error
	isNew := err == gorm.ErrRecordNotFound
	if err != nil && !isNew {
		return nil, fmt.Errorf("buscar tarjeta: %w", err)
	}

	assigned := input.PersonID != nil && *input.PersonID != ""
	isNewAssignment := assigned && (isNew || !existing.IsAssigned())

	card := existing
	card.Folio = input.Folio
	card.Type = input.Type
	card.PersonID = input.PersonID

	switch {
	case input.Status != "":
		card.Status = input.Status
	case assigned:
		card.Status = models.CardStatusActive
	default:
		card.Status = models.CardStatusAvailable
	}

	pending := models.ProgrammingPending
	unsigned := models.ResponsivaUnsigned
	switch {
	case isNewAssignment:
		card.ProgrammingStatus = &pending
		card.ResponsivaStatus = &unsigned
	case !assigned:
		card.ProgrammingStatus = nil
		card.ResponsivaStatus = nil
	default:
		if input.ProgrammingStatus != nil {
			card.ProgrammingStatus = input.ProgrammingStatus
		} else if card.ProgrammingStatus == nil {
			card.ProgrammingStatus = &pending
		}
		if input.ResponsivaStatus != nil {
			card.ResponsivaStatus = input.ResponsivaStatus
		} else if card.ResponsivaStatus == nil {
			card.ResponsivaStatus = &unsigned
		}
	}

	if err := s.db.Save(&card).Error; err != nil {
		return nil, fmt.Errorf("guardar tarjeta: %w", err)
	}

	s.history.Log(models.EntityCard, card.ID, models.ActionUpsert,
		fmt.Sprintf("Tarjeta %s (%s) guardada/actualizada", card.Folio, card.Type), nil)
	s.notify("card_saved", card)

	if err := s.evaluateTickets(&card); err != nil {
		return nil, err
	}

	return &card, nil
}

// evaluateTickets applies the ticket rules after a save: an assigned card
// that is not yet programmed needs a programming ticket; one that is
// programmed but unsigned needs a responsiva ticket.
func (s *CardService) evaluateTickets(card *models.Card) error {
	if !card.IsAssigned() {
		return nil
	}

	signed := card.ResponsivaStatus != nil && *card.ResponsivaStatus == models.ResponsivaSigned
	programmed := card.ProgrammingStatus != nil && *card.ProgrammingStatus == models.ProgrammingDone

	if !signed && programmed {
		if err := s.tickets.EnsureSystemTicket(card.ID, models.TicketTypeResponsiva,
			"Firma de Responsiva",
			fmt.Sprintf("Firma pendiente para la tarjeta %s", card.Folio),
			card.PersonID); err != nil {
			return err
		}
	}
	if !programmed {
		if err := s.tickets.EnsureSystemTicket(card.ID, models.TicketTypeProgramming,
			"Programación de Acceso",
			fmt.Sprintf("Configurar niveles de acceso para %s", card.Folio),
			card.PersonID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProgrammingStatus persists the programming state and syncs tickets:
// done closes the programming ticket and, while the responsiva is still
// unsigned, opens the signature ticket; back to pending reopens the
// programming ticket.
func (s *CardService) UpdateProgrammingStatus(cardID string, status models.ProgrammingStatus) error {
	var card models.Card
	if err := s.db.First(&card, "id = ?", cardID).Error; err != nil {
		return fmt.Errorf("buscar tarjeta: %w", err)
	}

	if err := s.db.Model(&models.Card{}).
		Where("id = ?", cardID).
		Update("programming_status", status).Error; err != nil {
		return fmt.Errorf("actualizar programación: %w", err)
	}
	card.ProgrammingStatus = &status

	s.history.Log(models.EntityCard, cardID, models.ActionUpdateProgramming,
		fmt.Sprintf("Actualización de estatus de programación a %s", status), nil)
	s.notify("card_updated", card)

	switch status {
	case models.ProgrammingDone:
		if err := s.tickets.CloseSystemTicket(cardID, models.TicketTypeProgramming); err != nil {
			return err
		}
		signed := card.ResponsivaStatus != nil && *card.ResponsivaStatus == models.ResponsivaSigned
		if card.IsAssigned() && !signed {
			return s.tickets.EnsureSystemTicket(cardID, models.TicketTypeResponsiva,
				"Firma de Responsiva",
				fmt.Sprintf("Firma pendiente para la tarjeta %s", card.Folio),
				card.PersonID)
		}
	case models.ProgrammingPending:
		if card.IsAssigned() {
			return s.tickets.EnsureSystemTicket(cardID, models.TicketTypeProgramming,
				"Programación de Acceso",
				fmt.Sprintf("Configurar niveles de acceso para %s", card.Folio),
				card.PersonID)
		}
	}
	return nil
}

// UpdateResponsivaStatus persists the waiver state and syncs tickets: signed
// closes the signature ticket; unsigned reopens it when the card is assigned
// and already programmed.
func (s *CardService) UpdateResponsivaStatus(cardID string, status models.ResponsivaStatus) error {
	var card models.Card
	if err := s.db.First(&card, "id = ?", cardID).Error; err != nil {
		return fmt.Errorf("buscar tarjeta: %w", err)
	}

	if err := s.db.Model(&models.Card{}).
		Where("id = ?", cardID).
		Update("responsiva_status", status).Error; err != nil {
		return fmt.Errorf("actualizar responsiva: %w", err)
	}
	card.ResponsivaStatus = &status

	s.history.Log(models.EntityCard, cardID, models.ActionUpdateResponsiva,
		fmt.Sprintf("Actualización de estatus de responsiva a %s", status), nil)
	s.notify("card_updated", card)

	switch status {
	case models.ResponsivaSigned:
		return s.tickets.CloseSystemTicket(cardID, models.TicketTypeResponsiva)
	case models.ResponsivaUnsigned:
		programmed := card.ProgrammingStatus != nil && *card.ProgrammingStatus == models.ProgrammingDone
		if card.IsAssigned() && programmed {
			return s.tickets.EnsureSystemTicket(cardID, models.TicketTypeResponsiva,
				"Firma de Responsiva",
				fmt.Sprintf("Firma pendiente para la tarjeta %s", card.Folio),
				card.PersonID)
		}
	}
	return nil
}

// UpdateStatus persists the lifecycle status. A card cannot be active while
// unassigned: reactivating one without an owner lands it on available.
func (s *CardService) UpdateStatus(cardID string, status models.CardStatus) error {
	finalStatus := status
	if status == models.CardStatusActive {
		var card models.Card
		if err := s.db.First(&card, "id = ?", cardID).Error; err != nil {
			return fmt.Errorf("buscar tarjeta: %w", err)
		}
		if !card.IsAssigned() {
			finalStatus = models.CardStatusAvailable
		}
	}

	result := s.db.Model(&models.Card{}).Where("id = ?", cardID).Update("status", finalStatus)
	if result.Error != nil {
		return fmt.Errorf("actualizar estado: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.history.Log(models.EntityCard, cardID, models.ActionUpdateStatus,
		fmt.Sprintf("Cambio de estado de tarjeta a %s", finalStatus), nil)
	s.notify("card_updated", map[string]interface{}{"id": cardID, "status": finalStatus})
	return nil
}

// Unassign releases the card back to the pool: owner cleared, sub-statuses
// reset, status available. Its Programación/Firma tickets are deleted, not
// completed: once the card is unassigned they describe work nobody needs.
func (s *CardService) Unassign(cardID string) error {
	return s.release(cardID, models.CardStatusAvailable, models.ActionUnassign,
		"Tarjeta desvinculada y marcada como disponible")
}

// Deactivate is a hard retirement: same cleanup as Unassign but the card
// ends inactive instead of available.
func (s *CardService) Deactivate(cardID string) error {
	return s.release(cardID, models.CardStatusInactive, models.ActionUpdateStatus,
		"Tarjeta dada de baja (Inactiva)")
}

func (s *CardService) release(cardID string, status models.CardStatus, action, message string) error {
	pending := models.ProgrammingPending
	unsigned := models.ResponsivaUnsigned

	result := s.db.Model(&models.Card{}).Where("id = ?", cardID).Updates(map[string]interface{}{
		"person_id":          nil,
		"status":             status,
		"programming_status": pending,
		"responsiva_status":  unsigned,
	})
	if result.Error != nil {
		return fmt.Errorf("liberar tarjeta: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := s.tickets.DeleteByCard(cardID, models.TicketTypeProgramming, models.TicketTypeResponsiva); err != nil {
		return err
	}

	s.history.Log(models.EntityCard, cardID, action, message, nil)
	s.notify("card_updated", map[string]interface{}{"id": cardID, "status": status})
	return nil
}

// Delete hard-deletes the card. Callers that care about the card's tickets
// must close or delete them first; this operation does not cascade.
func (s *CardService) Delete(cardID string) error {
	result := s.db.Unscoped().Delete(&models.Card{}, "id = ?", cardID)
	if result.Error != nil {
		return fmt.Errorf("eliminar tarjeta: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.history.Log(models.EntityCard, cardID, models.ActionDelete,
		"Eliminación permanente de tarjeta", nil)
	s.notify("card_deleted", map[string]interface{}{"id": cardID})
	return nil
}

// FetchUnassigned returns the card pool: everything with no owner,
// optionally narrowed to one card type.
func (s *CardService) FetchUnassigned(cardType models.CardType) ([]models.Card, error) {
	query := s.db.Where("person_id IS NULL")
	if cardType != "" {
		query = query.Where("type = ?", cardType)
	}

	var cards []models.Card
	if err := query.Order("folio").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *CardService) notify(event string, payload interface{}) {
	if s.wsEnabled {
		s.wsHandler.NotifyDataEvent(event, payload)
	}
}
