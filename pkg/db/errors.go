package db

import "strings"

// IsUniqueViolation reports whether err is a unique constraint violation.
// Hints narrow the match to a specific constraint name or table.column pair;
// Postgres reports the constraint name, sqlite reports the column, so callers
// that need to tell constraints apart pass both forms. With no hints any
// unique violation matches.
func IsUniqueViolation(err error, hints ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if len(hints) == 0 {
		return true
	}
	for _, hint := range hints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
