package utils

import "github.com/google/uuid"

// IsUUID reports whether s parses as a UUID. Handlers use it to turn
// syntactically bad ids into not-found instead of a DB type error.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
