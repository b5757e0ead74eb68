package handlers

import "strings"

// translateConstraintError returns the duplicate-specific message when the
// error is a sqlite unique-constraint failure, otherwise a generic one.
func translateConstraintError(err error, duplicateMsg string) string {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return duplicateMsg
	}
	return "Ocurrió un error al guardar. Intente de nuevo."
}
