package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/MarcosAvg/nexa/internal/models"
)

// legalHashFields are the form fields covered by the hash. Restricting the
// hash to this stable subset keeps save and verify in agreement even when
// the stored document later gains metadata fields.
var legalHashFields = []string{"folio", "nombre", "numEmpleado", "dependencia", "fecha"}

// GenerateLegalHash computes the SHA-256 fingerprint binding a waiver's core
// form data, the captured signature and the legal text in force at signing.
func GenerateLegalHash(data models.JSONMap, signature, legalSnippet string) (string, error) {
	stable := make(map[string]interface{}, len(legalHashFields))
	for _, field := range legalHashFields {
		if value, ok := data[field]; ok {
			stable[field] = value
		}
	}

	content, err := json.Marshal(map[string]interface{}{
		"data":         stable,
		"signature":    signature,
		"legalSnippet": legalSnippet,
	})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}
