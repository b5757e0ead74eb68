package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcosAvg/nexa/internal/models"
)

func TestGenerateLegalHash_Deterministic(t *testing.T) {
	data := models.JSONMap{
		"folio":       "P-100",
		"nombre":      "Ana Torres",
		"numEmpleado": "EMP-9",
		"dependencia": "Obras",
		"fecha":       "2026-08-29",
	}

	first, err := GenerateLegalHash(data, "firma", "texto legal")
	require.NoError(t, err)
	second, err := GenerateLegalHash(data, "firma", "texto legal")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestGenerateLegalHash_IgnoresExtraFields(t *testing.T) {
	base := models.JSONMap{"folio": "P-100", "nombre": "Ana Torres"}
	withExtras := models.JSONMap{"folio": "P-100", "nombre": "Ana Torres", "observaciones": "llega tarde"}

	a, err := GenerateLegalHash(base, "firma", "texto")
	require.NoError(t, err)
	b, err := GenerateLegalHash(withExtras, "firma", "texto")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateLegalHash_SensitiveToCoveredInputs(t *testing.T) {
	data := models.JSONMap{"folio": "P-100", "nombre": "Ana Torres"}

	original, err := GenerateLegalHash(data, "firma", "texto")
	require.NoError(t, err)

	changedData, err := GenerateLegalHash(models.JSONMap{"folio": "P-101", "nombre": "Ana Torres"}, "firma", "texto")
	require.NoError(t, err)
	assert.NotEqual(t, original, changedData)

	changedSignature, err := GenerateLegalHash(data, "otra firma", "texto")
	require.NoError(t, err)
	assert.NotEqual(t, original, changedSignature)

	changedText, err := GenerateLegalHash(data, "firma", "texto reformado")
	require.NoError(t, err)
	assert.NotEqual(t, original, changedText)
}
