package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database per test. The shared-cache
// name keeps gorm's pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Person{},
		&models.Card{},
		&models.Ticket{},
		&models.HistoryLog{},
		&models.Dependency{},
		&models.Building{},
		&models.SpecialAccess{},
		&models.Schedule{},
		&models.Profile{},
		&models.SignedResponsiva{},
	))

	return db
}

type testServices struct {
	db          *gorm.DB
	history     *HistoryService
	tickets     *TicketService
	cards       *CardService
	personnel   *PersonnelService
	responsivas *ResponsivaService
}

func setupServices(t *testing.T) testServices {
	t.Helper()

	db := setupTestDB(t)
	logger := zap.NewNop()

	history := NewHistoryService(db, logger)
	tickets := NewTicketService(db, history, logger)
	cards := NewCardService(db, history, tickets, logger)
	personnel := NewPersonnelService(db, history, tickets, logger)
	responsivas := NewResponsivaService(db, history, cards, logger)

	return testServices{
		db:          db,
		history:     history,
		tickets:     tickets,
		cards:       cards,
		personnel:   personnel,
		responsivas: responsivas,
	}
}

func createTestPerson(t *testing.T, db *gorm.DB, status models.PersonStatus) *models.Person {
	t.Helper()

	person := models.Person{
		FirstName:  "Laura",
		LastName:   "Mendoza",
		EmployeeNo: fmt.Sprintf("EMP-%d", atomic.AddInt64(&testDBCounter, 1)),
		Status:     status,
	}
	require.NoError(t, db.Create(&person).Error)
	return &person
}

func pendingTickets(t *testing.T, db *gorm.DB, cardID, ticketType string) []models.Ticket {
	t.Helper()

	var tickets []models.Ticket
	require.NoError(t, db.
		Where("card_id = ? AND type = ? AND status = ?", cardID, ticketType, models.TicketStatusPending).
		Find(&tickets).Error)
	return tickets
}

func historyEntries(t *testing.T, db *gorm.DB, action string) []models.HistoryLog {
	t.Helper()

	var logs []models.HistoryLog
	require.NoError(t, db.Where("action = ?", action).Find(&logs).Error)
	return logs
}
