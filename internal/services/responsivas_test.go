package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosAvg/nexa/internal/models"
)

func TestSignResponsiva_MarksCardSignedAndClosesTicket(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	card, err := s.cards.Save(CardInput{Folio: "R-1", Type: models.CardTypeP2000, PersonID: &person.ID})
	require.NoError(t, err)
	require.NoError(t, s.cards.UpdateProgrammingStatus(card.ID, models.ProgrammingDone))
	require.Len(t, pendingTickets(t, s.db, card.ID, models.TicketTypeResponsiva), 1)

	responsiva, err := s.responsivas.Save(ResponsivaInput{
		PersonID:      person.ID,
		Folio:         "R-1",
		CardType:      models.CardTypeP2000,
		Data:          models.JSONMap{"folio": "R-1", "nombre": person.FullName()},
		Signature:     "data:image/png;base64,abc",
		LegalSnapshot: "Texto legal vigente",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, responsiva.LegalHash)

	var reloaded models.Card
	require.NoError(t, s.db.First(&reloaded, "id = ?", card.ID).Error)
	require.NotNil(t, reloaded.ResponsivaStatus)
	assert.Equal(t, models.ResponsivaSigned, *reloaded.ResponsivaStatus)

	assert.Empty(t, pendingTickets(t, s.db, card.ID, models.TicketTypeResponsiva))
	assert.Len(t, historyEntries(t, s.db, models.ActionSignResponsiva), 1)
}

func TestSignResponsiva_NoMatchingCardKeepsDocument(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	responsiva, err := s.responsivas.Save(ResponsivaInput{
		PersonID:  person.ID,
		Folio:     "GHOST-1",
		CardType:  models.CardTypeKone,
		Signature: "firma",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.db.Model(&models.SignedResponsiva{}).Where("id = ?", responsiva.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSignResponsiva_RequiredFields(t *testing.T) {
	s := setupServices(t)

	_, err := s.responsivas.Save(ResponsivaInput{Folio: "X-1"})
	assert.Error(t, err)
}

func TestDeleteResponsiva_LeavesCardStateAlone(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	card, err := s.cards.Save(CardInput{Folio: "R-2", Type: models.CardTypeP2000, PersonID: &person.ID})
	require.NoError(t, err)
	require.NoError(t, s.cards.UpdateProgrammingStatus(card.ID, models.ProgrammingDone))

	responsiva, err := s.responsivas.Save(ResponsivaInput{
		PersonID:  person.ID,
		Folio:     "R-2",
		CardType:  models.CardTypeP2000,
		Signature: "firma",
	})
	require.NoError(t, err)

	require.NoError(t, s.responsivas.Delete(responsiva.ID, person.ID))

	var reloaded models.Card
	require.NoError(t, s.db.First(&reloaded, "id = ?", card.ID).Error)
	require.NotNil(t, reloaded.ResponsivaStatus)
	assert.Equal(t, models.ResponsivaSigned, *reloaded.ResponsivaStatus)

	assert.Len(t, historyEntries(t, s.db, models.ActionDeleteResponsiva), 1)
}
