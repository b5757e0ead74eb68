package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/websocket"
)

// TicketService creates, deduplicates, closes and deletes workflow tickets.
// Tickets of type "Programación de Acceso" and "Firma Responsiva" are managed
// by the card lifecycle rules; anything else is operator-created.
type TicketService struct {
	db        *gorm.DB
	history   *HistoryService
	log       *zap.Logger
	wsHandler *websocket.WebSocketHandler
	wsEnabled bool
}

func NewTicketService(db *gorm.DB, history *HistoryService, log *zap.Logger) *TicketService {
	return &TicketService{db: db, history: history, log: log}
}

func (s *TicketService) SetWebSocketHandler(wsHandler *websocket.WebSocketHandler) {
	s.wsHandler = wsHandler
	s.wsEnabled = (wsHandler != nil)
}

// WithActor returns a copy whose audit records are attributed to the given
// profile.
func (s *TicketService) WithActor(actor *string) *TicketService {
	clone := *s
	clone.history = s.history.WithActor(actor)
	return &clone
}

type TicketInput struct {
	Title       string
	Type        string
	Description string
	Priority    string
	PersonID    *string
	CardID      *string
	Payload     models.JSONMap
}

// Create inserts a pending ticket. Used both by operators and by the
// system-ticket paths below.
func (s *TicketService) Create(input TicketInput) (*models.Ticket, error) {
	ticket := models.Ticket{
		Title:       input.Title,
		Type:        input.Type,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      models.TicketStatusPending,
		PersonID:    input.PersonID,
		CardID:      input.CardID,
		Payload:     input.Payload,
	}
	if ticket.Title == "" {
		ticket.Title = ticket.Type
	}
	if ticket.Priority == "" {
		ticket.Priority = models.TicketPriorityMedia
	}
	if ticket.Payload == nil {
		ticket.Payload = models.JSONMap{}
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, fmt.Errorf("crear ticket: %w", err)
	}

	s.history.Log(models.EntityTicket, fmt.Sprint(ticket.ID), models.ActionCreateTicket,
		fmt.Sprintf("Ticket creado: %s", ticket.Title), nil)
	s.notify("ticket_created", ticket)

	return &ticket, nil
}

// EnsureSystemTicket creates a system-generated ticket unless a pending one
// of the same type already exists for the card. Safe to call repeatedly.
func (s *TicketService) EnsureSystemTicket(cardID, ticketType, title, description string, personID *string) error {
	var count int64
	if err := s.db.Model(&models.Ticket{}).
		Where("card_id = ? AND type = ? AND status = ?", cardID, ticketType, models.TicketStatusPending).
		Count(&count).Error; err != nil {
		return fmt.Errorf("buscar ticket pendiente: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := s.Create(TicketInput{
		Title:       title,
		Type:        ticketType,
		Description: description,
		Priority:    models.TicketPriorityAlta,
		PersonID:    personID,
		CardID:      &cardID,
		Payload:     models.JSONMap{"isSystemGenerated": true},
	})
	return err
}

// CloseSystemTicket completes the pending ticket of the given type for the
// card, if one exists. Completion preserves the ticket as resolved history,
// in contrast with the delete paths.
func (s *TicketService) CloseSystemTicket(cardID, ticketType string) error {
	var ticket models.Ticket
	err := s.db.
		Where("card_id = ? AND type = ? AND status = ?", cardID, ticketType, models.TicketStatusPending).
		First(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("buscar ticket pendiente: %w", err)
	}

	if err := s.db.Model(&models.Ticket{}).
		Where("id = ?", ticket.ID).
		Update("status", models.TicketStatusCompleted).Error; err != nil {
		return fmt.Errorf("completar ticket: %w", err)
	}

	s.history.Log(models.EntityTicket, fmt.Sprint(ticket.ID), models.ActionCompleteTicket,
		fmt.Sprintf("Ticket completado: %s", ticket.Title), nil)
	ticket.Status = models.TicketStatusCompleted
	s.notify("ticket_updated", ticket)

	return nil
}

// DeleteByCard hard-deletes the card's tickets, optionally restricted to the
// given types. Used when an unassignment or deactivation makes the tickets
// meaningless rather than resolved.
func (s *TicketService) DeleteByCard(cardID string, types ...string) error {
	query := s.db.Where("card_id = ?", cardID)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	if err := query.Delete(&models.Ticket{}).Error; err != nil {
		return fmt.Errorf("eliminar tickets de tarjeta: %w", err)
	}
	s.notify("tickets_deleted", map[string]interface{}{"card_id": cardID, "types": types})
	return nil
}

// DeleteByPerson hard-deletes every ticket referencing the person.
func (s *TicketService) DeleteByPerson(personID string) error {
	if err := s.db.Where("person_id = ?", personID).Delete(&models.Ticket{}).Error; err != nil {
		return fmt.Errorf("eliminar tickets de persona: %w", err)
	}
	s.notify("tickets_deleted", map[string]interface{}{"person_id": personID})
	return nil
}

// UpdateStatus sets a ticket's status directly (operator action).
func (s *TicketService) UpdateStatus(id uint, status models.TicketStatus) error {
	result := s.db.Model(&models.Ticket{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("actualizar estado de ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	action := models.ActionUpdateStatus
	if status == models.TicketStatusCompleted {
		action = models.ActionCompleteTicket
	}
	s.history.Log(models.EntityTicket, fmt.Sprint(id), action,
		fmt.Sprintf("Ticket ID %d actualizado a estado: %s", id, status), nil)

	var ticket models.Ticket
	if err := s.db.First(&ticket, id).Error; err == nil {
		s.notify("ticket_updated", ticket)
	}
	return nil
}

// Delete removes a ticket outright (operator action).
func (s *TicketService) Delete(id uint) error {
	result := s.db.Delete(&models.Ticket{}, id)
	if result.Error != nil {
		return fmt.Errorf("eliminar ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.history.Log(models.EntityTicket, fmt.Sprint(id), models.ActionDelete,
		fmt.Sprintf("Eliminación de ticket ID %d", id), nil)
	s.notify("ticket_deleted", map[string]interface{}{"id": id})
	return nil
}

// FetchAll lists tickets newest first. An empty status returns everything;
// the consuming view decides how to filter.
func (s *TicketService) FetchAll(status models.TicketStatus) ([]models.Ticket, error) {
	query := s.db.Model(&models.Ticket{}).Preload("Person").Preload("Card")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// SyncSystemTickets reconciles system tickets against the current state of
// every assigned card. It repairs drift after bulk edits that bypassed the
// normal mutation paths and is idempotent: running it twice changes nothing.
func (s *TicketService) SyncSystemTickets() (int, error) {
	var cards []models.Card
	if err := s.db.Where("person_id IS NOT NULL").Find(&cards).Error; err != nil {
		return 0, fmt.Errorf("listar tarjetas asignadas: %w", err)
	}

	for _, card := range cards {
		signed := card.ResponsivaStatus != nil && *card.ResponsivaStatus == models.ResponsivaSigned
		programmed := card.ProgrammingStatus != nil && *card.ProgrammingStatus == models.ProgrammingDone

		if !signed && programmed {
			if err := s.EnsureSystemTicket(card.ID, models.TicketTypeResponsiva,
				"Firma de Responsiva",
				fmt.Sprintf("Firma pendiente para la tarjeta %s", card.Folio),
				card.PersonID); err != nil {
				return 0, err
			}
		} else if err := s.CloseSystemTicket(card.ID, models.TicketTypeResponsiva); err != nil {
			return 0, err
		}

		if !programmed {
			if err := s.EnsureSystemTicket(card.ID, models.TicketTypeProgramming,
				"Programación de Acceso",
				fmt.Sprintf("Configurar niveles de acceso para %s", card.Folio),
				card.PersonID); err != nil {
				return 0, err
			}
		} else if err := s.CloseSystemTicket(card.ID, models.TicketTypeProgramming); err != nil {
			return 0, err
		}
	}

	s.log.Info("sincronización de tickets de sistema completada", zap.Int("tarjetas", len(cards)))
	return len(cards), nil
}

func (s *TicketService) notify(event string, payload interface{}) {
	if s.wsEnabled {
		s.wsHandler.NotifyDataEvent(event, payload)
	}
}
