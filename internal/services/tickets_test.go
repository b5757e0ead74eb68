package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

func TestCreateTicket_Defaults(t *testing.T) {
	s := setupServices(t)

	ticket, err := s.tickets.Create(TicketInput{Type: "Reposición"})
	require.NoError(t, err)

	assert.Equal(t, "Reposición", ticket.Title)
	assert.Equal(t, models.TicketPriorityMedia, ticket.Priority)
	assert.Equal(t, models.TicketStatusPending, ticket.Status)
	assert.False(t, ticket.IsSystemGenerated())
	assert.Len(t, historyEntries(t, s.db, models.ActionCreateTicket), 1)
}

func TestEnsureSystemTicket_Idempotent(t *testing.T) {
	s := setupServices(t)

	require.NoError(t, s.tickets.EnsureSystemTicket("card-1", models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", nil))
	require.NoError(t, s.tickets.EnsureSystemTicket("card-1", models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", nil))

	assert.Len(t, pendingTickets(t, s.db, "card-1", models.TicketTypeProgramming), 1)
}

func TestEnsureSystemTicket_CompletedDoesNotBlockNewOne(t *testing.T) {
	s := setupServices(t)

	require.NoError(t, s.tickets.EnsureSystemTicket("card-2", models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", nil))
	require.NoError(t, s.tickets.CloseSystemTicket("card-2", models.TicketTypeProgramming))

	require.NoError(t, s.tickets.EnsureSystemTicket("card-2", models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", nil))

	assert.Len(t, pendingTickets(t, s.db, "card-2", models.TicketTypeProgramming), 1)
}

func TestCloseSystemTicket_NothingPendingIsNoError(t *testing.T) {
	s := setupServices(t)

	assert.NoError(t, s.tickets.CloseSystemTicket("card-3", models.TicketTypeResponsiva))
}

func TestCloseSystemTicket_CompletesAndLogs(t *testing.T) {
	s := setupServices(t)

	require.NoError(t, s.tickets.EnsureSystemTicket("card-4", models.TicketTypeResponsiva,
		"Firma de Responsiva", "Firma pendiente", nil))
	require.NoError(t, s.tickets.CloseSystemTicket("card-4", models.TicketTypeResponsiva))

	assert.Empty(t, pendingTickets(t, s.db, "card-4", models.TicketTypeResponsiva))
	assert.Len(t, historyEntries(t, s.db, models.ActionCompleteTicket), 1)
}

func TestUpdateTicketStatus_NotFound(t *testing.T) {
	s := setupServices(t)

	err := s.tickets.UpdateStatus(999, models.TicketStatusCompleted)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestDeleteByCard_RestrictsToGivenTypes(t *testing.T) {
	s := setupServices(t)

	require.NoError(t, s.tickets.EnsureSystemTicket("card-5", models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", nil))
	cardID := "card-5"
	_, err := s.tickets.Create(TicketInput{Type: "Reposición", CardID: &cardID})
	require.NoError(t, err)

	require.NoError(t, s.tickets.DeleteByCard("card-5", models.TicketTypeProgramming, models.TicketTypeResponsiva))

	var remaining []models.Ticket
	require.NoError(t, s.db.Where("card_id = ?", "card-5").Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Reposición", remaining[0].Type)
}

func TestSyncSystemTickets_ReconcilesDrift(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	pending := models.ProgrammingPending
	done := models.ProgrammingDone
	unsigned := models.ResponsivaUnsigned
	signed := models.ResponsivaSigned

	// Assigned, nothing done: needs a programming ticket.
	needsProgramming := models.Card{
		Folio: "SYNC-1", Type: models.CardTypeP2000, Status: models.CardStatusActive,
		PersonID: &person.ID, ProgrammingStatus: &pending, ResponsivaStatus: &unsigned,
	}
	require.NoError(t, s.db.Create(&needsProgramming).Error)

	// Programmed but unsigned: needs a signature ticket, and a stale
	// programming ticket to close.
	needsSignature := models.Card{
		Folio: "SYNC-2", Type: models.CardTypeP2000, Status: models.CardStatusActive,
		PersonID: &person.ID, ProgrammingStatus: &done, ResponsivaStatus: &unsigned,
	}
	require.NoError(t, s.db.Create(&needsSignature).Error)
	require.NoError(t, s.tickets.EnsureSystemTicket(needsSignature.ID, models.TicketTypeProgramming,
		"Programación de Acceso", "Configurar accesos", &person.ID))

	// Fully done: any pending system tickets should close.
	complete := models.Card{
		Folio: "SYNC-3", Type: models.CardTypeP2000, Status: models.CardStatusActive,
		PersonID: &person.ID, ProgrammingStatus: &done, ResponsivaStatus: &signed,
	}
	require.NoError(t, s.db.Create(&complete).Error)
	require.NoError(t, s.tickets.EnsureSystemTicket(complete.ID, models.TicketTypeResponsiva,
		"Firma de Responsiva", "Firma pendiente", &person.ID))

	visited, err := s.tickets.SyncSystemTickets()
	require.NoError(t, err)
	assert.Equal(t, 3, visited)

	assert.Len(t, pendingTickets(t, s.db, needsProgramming.ID, models.TicketTypeProgramming), 1)
	assert.Empty(t, pendingTickets(t, s.db, needsSignature.ID, models.TicketTypeProgramming))
	assert.Len(t, pendingTickets(t, s.db, needsSignature.ID, models.TicketTypeResponsiva), 1)
	assert.Empty(t, pendingTickets(t, s.db, complete.ID, models.TicketTypeResponsiva))

	// Second run changes nothing.
	_, err = s.tickets.SyncSystemTickets()
	require.NoError(t, err)

	var pendingCount int64
	require.NoError(t, s.db.Model(&models.Ticket{}).
		Where("status = ?", models.TicketStatusPending).
		Count(&pendingCount).Error)
	assert.EqualValues(t, 2, pendingCount)
}
