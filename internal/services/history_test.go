package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosAvg/nexa/internal/models"
)

func TestHistoryLog_StringDetailsAreWrapped(t *testing.T) {
	s := setupServices(t)

	s.history.Log(models.EntityCard, "card-1", models.ActionUpsert, "Tarjeta guardada", nil)

	entries := historyEntries(t, s.db, models.ActionUpsert)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tarjeta guardada", entries[0].Details["message"])
	require.NotNil(t, entries[0].EntityID)
	assert.Equal(t, "card-1", *entries[0].EntityID)
}

func TestHistoryLog_EmptyEntityIDStoredAsNull(t *testing.T) {
	s := setupServices(t)

	s.history.Log(models.EntitySystem, "", models.ActionCreateCatalog, "Edificio creado", nil)

	entries := historyEntries(t, s.db, models.ActionCreateCatalog)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].EntityID)
}

func TestHistoryLog_ExplicitActorWinsOverSession(t *testing.T) {
	s := setupServices(t)

	session := "session-profile"
	explicit := "explicit-profile"

	s.history.WithActor(&session).Log(models.EntityCard, "card-1", models.ActionUpdateStatus, "cambio", &explicit)

	entries := historyEntries(t, s.db, models.ActionUpdateStatus)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].PerformedBy)
	assert.Equal(t, explicit, *entries[0].PerformedBy)
}

func TestHistoryLog_FailureIsSwallowed(t *testing.T) {
	s := setupServices(t)

	require.NoError(t, s.db.Migrator().DropTable(&models.HistoryLog{}))

	// Must not panic nor surface an error to the caller.
	s.history.Log(models.EntityCard, "card-1", models.ActionUpsert, "sin tabla", nil)
}

func TestFetchByEntity_NewestFirst(t *testing.T) {
	s := setupServices(t)

	s.history.Log(models.EntityCard, "card-1", models.ActionUpsert, "primero", nil)
	s.history.Log(models.EntityCard, "card-1", models.ActionUpdateStatus, "segundo", nil)
	s.history.Log(models.EntityCard, "card-2", models.ActionUpsert, "otra tarjeta", nil)

	logs, err := s.history.FetchByEntity(models.EntityCard, "card-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.False(t, logs[0].Timestamp.Before(logs[1].Timestamp))
}
