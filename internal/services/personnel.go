package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/websocket"
)

// PersonnelService owns person records and cascades status changes onto the
// person's cards and tickets.
type PersonnelService struct {
	db        *gorm.DB
	history   *HistoryService
	tickets   *TicketService
	log       *zap.Logger
	wsHandler *websocket.WebSocketHandler
	wsEnabled bool
}

func NewPersonnelService(db *gorm.DB, history *HistoryService, tickets *TicketService, log *zap.Logger) *PersonnelService {
	return &PersonnelService{db: db, history: history, tickets: tickets, log: log}
}

func (s *PersonnelService) SetWebSocketHandler(wsHandler *websocket.WebSocketHandler) {
	s.wsHandler = wsHandler
	s.wsEnabled = (wsHandler != nil)
}

// WithActor returns a copy whose audit records, including the card and
// ticket cascades, are attributed to the given profile.
func (s *PersonnelService) WithActor(actor *string) *PersonnelService {
	clone := *s
	clone.history = s.history.WithActor(actor)
	clone.tickets = s.tickets.WithActor(actor)
	return &clone
}

// CardRef identifies a card inside a person payload.
type CardRef struct {
	Folio string          `json:"folio"`
	Type  models.CardType `json:"type"`
}

type PersonInput struct {
	ID              string
	FirstName       string
	LastName        string
	EmployeeNo      string
	Email           string
	Area            string
	Position        string
	Floor           string
	BuildingID      *string
	DependencyID    *string
	ScheduleID      *string
	EntryTime       string
	ExitTime        string
	FloorsP2000     []string
	FloorsKone      []string
	SpecialAccesses []string
	Status          models.PersonStatus
	// Cards, when non-nil, is the target set of assigned cards: folios
	// missing from it are released, net-new folios are assigned.
	Cards []CardRef
}

// Save upserts the person and, when the payload carries a card set, diffs it
// against the currently assigned folios. Only the net changes are logged:
// unchanged assignments produce no ASSIGN_CARD entries.
func (s *PersonnelService) Save(input PersonInput) (*models.Person, error) {
	status := input.Status
	if status == "" {
		status = models.PersonStatusActive
	}

	var person models.Person
	isNew := input.ID == ""
	if !isNew {
		if err := s.db.First(&person, "id = ?", input.ID).Error; err != nil {
			return nil, fmt.Errorf("buscar persona: %w", err)
		}
	}

	person.FirstName = input.FirstName
	person.LastName = input.LastName
	person.EmployeeNo = input.EmployeeNo
	person.Email = input.Email
	person.Area = input.Area
	person.Position = input.Position
	person.Floor = input.Floor
	person.BuildingID = input.BuildingID
	person.DependencyID = input.DependencyID
	person.ScheduleID = input.ScheduleID
	person.EntryTime = input.EntryTime
	person.ExitTime = input.ExitTime
	person.FloorsP2000 = input.FloorsP2000
	person.FloorsKone = input.FloorsKone
	person.SpecialAccesses = input.SpecialAccesses
	person.Status = status

	if err := s.db.Save(&person).Error; err != nil {
		return nil, fmt.Errorf("guardar persona: %w", err)
	}

	if isNew {
		s.history.Log(models.EntityPersonnel, person.ID, models.ActionCreate,
			fmt.Sprintf("Registro de %s", person.FullName()), nil)
	} else {
		s.history.Log(models.EntityPersonnel, person.ID, models.ActionUpdate,
			fmt.Sprintf("Actualización de datos de %s", person.FullName()), nil)
	}
	s.notify("person_saved", person)

	if input.Cards != nil {
		if err := s.syncCards(&person, input.Cards); err != nil {
			return nil, err
		}
	}

	return &person, nil
}

// syncCards applies the card-set diff of Save.
func (s *PersonnelService) syncCards(person *models.Person, target []CardRef) error {
	var current []models.Card
	if err := s.db.Where("person_id = ?", person.ID).Find(&current).Error; err != nil {
		return fmt.Errorf("listar tarjetas asignadas: %w", err)
	}

	currentFolios := make(map[string]bool, len(current))
	for _, c := range current {
		currentFolios[c.Folio] = true
	}
	targetFolios := make(map[string]bool, len(target))
	for _, t := range target {
		targetFolios[t.Folio] = true
	}

	var toUnlink []string
	for _, c := range current {
		if !targetFolios[c.Folio] {
			toUnlink = append(toUnlink, c.Folio)
		}
	}
	if len(toUnlink) > 0 {
		if err := s.db.Model(&models.Card{}).
			Where("person_id = ? AND folio IN ?", person.ID, toUnlink).
			Updates(map[string]interface{}{
				"person_id": nil,
				"status":    models.CardStatusAvailable,
			}).Error; err != nil {
			return fmt.Errorf("desvincular tarjetas: %w", err)
		}
		s.history.Log(models.EntityPersonnel, person.ID, models.ActionUnassignCard,
			fmt.Sprintf("Tarjetas desvinculadas: %s", strings.Join(toUnlink, ", ")), nil)
	}

	// A blocked person's fresh cards arrive blocked as well.
	cardStatus := models.CardStatusActive
	if person.Status == models.PersonStatusBlocked {
		cardStatus = models.CardStatusBlocked
	}

	var newAssignments []string
	for _, ref := range target {
		cardType := ref.Type
		if cardType == "" {
			cardType = models.CardTypeP2000
		}

		var card models.Card
		err := s.db.Where("folio = ? AND type = ?", ref.Folio, cardType).First(&card).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			pending := models.ProgrammingPending
			unsigned := models.ResponsivaUnsigned
			card = models.Card{
				Folio:             ref.Folio,
				Type:              cardType,
				Status:            cardStatus,
				PersonID:          &person.ID,
				ProgrammingStatus: &pending,
				ResponsivaStatus:  &unsigned,
			}
			if err := s.db.Create(&card).Error; err != nil {
				return fmt.Errorf("crear tarjeta %s: %w", ref.Folio, err)
			}
		case err != nil:
			return fmt.Errorf("buscar tarjeta %s: %w", ref.Folio, err)
		default:
			updates := map[string]interface{}{
				"person_id": person.ID,
				"status":    cardStatus,
			}
			if !card.IsAssigned() {
				// Net-new assignment: the work starts over.
				updates["programming_status"] = models.ProgrammingPending
				updates["responsiva_status"] = models.ResponsivaUnsigned
			}
			if err := s.db.Model(&models.Card{}).Where("id = ?", card.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("asignar tarjeta %s: %w", ref.Folio, err)
			}
		}

		if !currentFolios[ref.Folio] {
			newAssignments = append(newAssignments, ref.Folio)
			if err := s.tickets.EnsureSystemTicket(card.ID, models.TicketTypeProgramming,
				"Programación de Acceso",
				fmt.Sprintf("Configurar niveles de acceso para %s", card.Folio),
				&person.ID); err != nil {
				return err
			}
		}
	}

	if len(newAssignments) > 0 {
		s.history.Log(models.EntityPersonnel, person.ID, models.ActionAssignCard,
			fmt.Sprintf("Tarjetas asignadas: %s", strings.Join(newAssignments, ", ")), nil)
	}
	return nil
}

// UpdateStatus persists the stored status and cascades it onto the person's
// cards: blocking blocks them, reactivating reactivates them, deactivating
// releases them to the pool. Deactivation also deletes every ticket that
// references the person, a departed employee's pending work is moot.
func (s *PersonnelService) UpdateStatus(personID string, status models.PersonStatus) error {
	result := s.db.Model(&models.Person{}).Where("id = ?", personID).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("actualizar estado de persona: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	action := models.ActionUpdateStatus
	switch status {
	case models.PersonStatusBlocked:
		action = models.ActionBlock
	case models.PersonStatusActive:
		action = models.ActionActivate
	case models.PersonStatusInactive:
		action = models.ActionDeactivate
	}
	s.history.Log(models.EntityPersonnel, personID, action,
		fmt.Sprintf("Cambio de estado a %s", status), nil)

	switch status {
	case models.PersonStatusInactive:
		if err := s.db.Model(&models.Card{}).
			Where("person_id = ?", personID).
			Updates(map[string]interface{}{
				"person_id": nil,
				"status":    models.CardStatusAvailable,
			}).Error; err != nil {
			return fmt.Errorf("liberar tarjetas: %w", err)
		}
		if err := s.tickets.DeleteByPerson(personID); err != nil {
			return err
		}
	case models.PersonStatusBlocked:
		if err := s.db.Model(&models.Card{}).
			Where("person_id = ?", personID).
			Update("status", models.CardStatusBlocked).Error; err != nil {
			return fmt.Errorf("bloquear tarjetas: %w", err)
		}
	case models.PersonStatusActive:
		if err := s.db.Model(&models.Card{}).
			Where("person_id = ?", personID).
			Update("status", models.CardStatusActive).Error; err != nil {
			return fmt.Errorf("reactivar tarjetas: %w", err)
		}
	}

	s.notify("person_updated", map[string]interface{}{"id": personID, "status": status})
	return nil
}

// Delete removes the person permanently. Owned cards are released and ticket
// references nulled first so no foreign key blocks the delete; history logs
// keep their plain-string reference and need no cleanup.
func (s *PersonnelService) Delete(personID string) error {
	if err := s.db.Model(&models.Card{}).
		Where("person_id = ?", personID).
		Updates(map[string]interface{}{
			"person_id": nil,
			"status":    models.CardStatusAvailable,
		}).Error; err != nil {
		return fmt.Errorf("liberar tarjetas: %w", err)
	}

	if err := s.db.Model(&models.Ticket{}).
		Where("person_id = ?", personID).
		Update("person_id", nil).Error; err != nil {
		return fmt.Errorf("desvincular tickets: %w", err)
	}

	result := s.db.Unscoped().Delete(&models.Person{}, "id = ?", personID)
	if result.Error != nil {
		return fmt.Errorf("eliminar persona: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.history.Log(models.EntityPersonnel, personID, models.ActionDelete,
		"Eliminación permanente de personal", nil)
	s.notify("person_deleted", map[string]interface{}{"id": personID})
	return nil
}

// FetchAll returns every person with cards and catalog references preloaded.
// Displayed statuses are derived from this result at serialization time and
// are never stored.
func (s *PersonnelService) FetchAll() ([]models.Person, error) {
	var personnel []models.Person
	if err := s.db.
		Preload("Cards").
		Preload("Building").
		Preload("Dependency").
		Preload("Schedule").
		Order("last_name, first_name").
		Find(&personnel).Error; err != nil {
		return nil, err
	}
	return personnel, nil
}

// Fetch returns one person with the same preloads as FetchAll.
func (s *PersonnelService) Fetch(personID string) (*models.Person, error) {
	var person models.Person
	if err := s.db.
		Preload("Cards").
		Preload("Building").
		Preload("Dependency").
		Preload("Schedule").
		First(&person, "id = ?", personID).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *PersonnelService) notify(event string, payload interface{}) {
	if s.wsEnabled {
		s.wsHandler.NotifyDataEvent(event, payload)
	}
}
