package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

func TestSavePerson_CreateAndUpdateAreAudited(t *testing.T) {
	s := setupServices(t)

	person, err := s.personnel.Save(PersonInput{
		FirstName:  "Carlos",
		LastName:   "Rivera",
		EmployeeNo: "EMP-9001",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, person.ID)
	assert.Equal(t, models.PersonStatusActive, person.Status)
	assert.Len(t, historyEntries(t, s.db, models.ActionCreate), 1)

	person.FirstName = "Carlos Alberto"
	_, err = s.personnel.Save(PersonInput{
		ID:         person.ID,
		FirstName:  "Carlos Alberto",
		LastName:   "Rivera",
		EmployeeNo: "EMP-9001",
	})
	require.NoError(t, err)
	assert.Len(t, historyEntries(t, s.db, models.ActionUpdate), 1)
}

func TestSavePerson_NilCardsLeavesAssignmentsAlone(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	_, err := s.cards.Save(CardInput{Folio: "C-1", Type: models.CardTypeP2000, PersonID: &person.ID})
	require.NoError(t, err)

	_, err = s.personnel.Save(PersonInput{
		ID:         person.ID,
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		EmployeeNo: person.EmployeeNo,
	})
	require.NoError(t, err)

	var card models.Card
	require.NoError(t, s.db.First(&card, "folio = ?", "C-1").Error)
	require.NotNil(t, card.PersonID)
	assert.Equal(t, person.ID, *card.PersonID)
}

func TestSavePerson_CardDiffAppliesNetChangesOnly(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	_, err := s.personnel.Save(PersonInput{
		ID:         person.ID,
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		EmployeeNo: person.EmployeeNo,
		Cards: []CardRef{
			{Folio: "A-1", Type: models.CardTypeP2000},
			{Folio: "B-1", Type: models.CardTypeKone},
		},
	})
	require.NoError(t, err)

	// Replace A-1 with C-1; B-1 stays.
	_, err = s.personnel.Save(PersonInput{
		ID:         person.ID,
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		EmployeeNo: person.EmployeeNo,
		Cards: []CardRef{
			{Folio: "B-1", Type: models.CardTypeKone},
			{Folio: "C-1", Type: models.CardTypeP2000},
		},
	})
	require.NoError(t, err)

	var unlinked models.Card
	require.NoError(t, s.db.First(&unlinked, "folio = ?", "A-1").Error)
	assert.Nil(t, unlinked.PersonID)
	assert.Equal(t, models.CardStatusAvailable, unlinked.Status)

	var kept models.Card
	require.NoError(t, s.db.First(&kept, "folio = ?", "B-1").Error)
	require.NotNil(t, kept.PersonID)
	assert.Equal(t, person.ID, *kept.PersonID)

	var added models.Card
	require.NoError(t, s.db.First(&added, "folio = ?", "C-1").Error)
	require.NotNil(t, added.PersonID)
	assert.Equal(t, person.ID, *added.PersonID)
	require.NotNil(t, added.ProgrammingStatus)
	assert.Equal(t, models.ProgrammingPending, *added.ProgrammingStatus)
	assert.Len(t, pendingTickets(t, s.db, added.ID, models.TicketTypeProgramming), 1)

	// One assignment entry per save that added folios, none for B-1 alone.
	assigns := historyEntries(t, s.db, models.ActionAssignCard)
	require.Len(t, assigns, 2)
	assert.Equal(t, "Tarjetas asignadas: C-1", assigns[1].Details["message"])

	unassigns := historyEntries(t, s.db, models.ActionUnassignCard)
	require.Len(t, unassigns, 1)
	assert.Equal(t, "Tarjetas desvinculadas: A-1", unassigns[0].Details["message"])
}

func TestSavePerson_BlockedPersonGetsBlockedCards(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusBlocked)

	_, err := s.personnel.Save(PersonInput{
		ID:         person.ID,
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		EmployeeNo: person.EmployeeNo,
		Status:     models.PersonStatusBlocked,
		Cards:      []CardRef{{Folio: "BLK-1", Type: models.CardTypeP2000}},
	})
	require.NoError(t, err)

	var card models.Card
	require.NoError(t, s.db.First(&card, "folio = ?", "BLK-1").Error)
	assert.Equal(t, models.CardStatusBlocked, card.Status)
}

func TestUpdatePersonStatus_InactiveReleasesCardsAndDeletesTickets(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	card, err := s.cards.Save(CardInput{Folio: "REL-1", Type: models.CardTypeP2000, PersonID: &person.ID})
	require.NoError(t, err)
	require.Len(t, pendingTickets(t, s.db, card.ID, models.TicketTypeProgramming), 1)

	require.NoError(t, s.personnel.UpdateStatus(person.ID, models.PersonStatusInactive))

	var reloaded models.Card
	require.NoError(t, s.db.First(&reloaded, "id = ?", card.ID).Error)
	assert.Nil(t, reloaded.PersonID)
	assert.Equal(t, models.CardStatusAvailable, reloaded.Status)

	var ticketCount int64
	require.NoError(t, s.db.Model(&models.Ticket{}).Where("person_id = ?", person.ID).Count(&ticketCount).Error)
	assert.Zero(t, ticketCount)

	assert.Len(t, historyEntries(t, s.db, models.ActionDeactivate), 1)
}

func TestUpdatePersonStatus_BlockAndReactivateCascade(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	card, err := s.cards.Save(CardInput{Folio: "CAS-1", Type: models.CardTypeKone, PersonID: &person.ID})
	require.NoError(t, err)

	require.NoError(t, s.personnel.UpdateStatus(person.ID, models.PersonStatusBlocked))
	var blocked models.Card
	require.NoError(t, s.db.First(&blocked, "id = ?", card.ID).Error)
	assert.Equal(t, models.CardStatusBlocked, blocked.Status)
	assert.Len(t, historyEntries(t, s.db, models.ActionBlock), 1)

	require.NoError(t, s.personnel.UpdateStatus(person.ID, models.PersonStatusActive))
	var active models.Card
	require.NoError(t, s.db.First(&active, "id = ?", card.ID).Error)
	assert.Equal(t, models.CardStatusActive, active.Status)
	assert.Len(t, historyEntries(t, s.db, models.ActionActivate), 1)
}

func TestUpdatePersonStatus_NotFound(t *testing.T) {
	s := setupServices(t)

	err := s.personnel.UpdateStatus("missing", models.PersonStatusBlocked)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestDeletePerson_ReleasesCardsAndKeepsTrail(t *testing.T) {
	s := setupServices(t)
	person := createTestPerson(t, s.db, models.PersonStatusActive)

	card, err := s.cards.Save(CardInput{Folio: "DEL-1", Type: models.CardTypeP2000, PersonID: &person.ID})
	require.NoError(t, err)

	require.NoError(t, s.personnel.Delete(person.ID))

	var personCount int64
	require.NoError(t, s.db.Model(&models.Person{}).Where("id = ?", person.ID).Count(&personCount).Error)
	assert.Zero(t, personCount)

	var reloaded models.Card
	require.NoError(t, s.db.First(&reloaded, "id = ?", card.ID).Error)
	assert.Nil(t, reloaded.PersonID)
	assert.Equal(t, models.CardStatusAvailable, reloaded.Status)

	// Tickets lose the person reference but survive.
	var orphaned int64
	require.NoError(t, s.db.Model(&models.Ticket{}).Where("card_id = ? AND person_id IS NULL", card.ID).Count(&orphaned).Error)
	assert.EqualValues(t, 1, orphaned)

	// The trail keeps pointing at the dead id.
	deletes := historyEntries(t, s.db, models.ActionDelete)
	require.Len(t, deletes, 1)
	require.NotNil(t, deletes[0].EntityID)
	assert.Equal(t, person.ID, *deletes[0].EntityID)
}
