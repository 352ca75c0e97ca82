package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "ux_users_username" (SQLSTATE 23505)`)
	sqliteErr := errors.New("UNIQUE constraint failed: users.username")

	if !IsUniqueViolation(pgErr) || !IsUniqueViolation(sqliteErr) {
		t.Fatalf("expected both driver messages to match without hints")
	}
	if !IsUniqueViolation(pgErr, "ux_users_username", "users.username") {
		t.Fatalf("expected postgres constraint hint to match")
	}
	if !IsUniqueViolation(sqliteErr, "ux_users_username", "users.username") {
		t.Fatalf("expected sqlite column hint to match")
	}
	if IsUniqueViolation(pgErr, "ux_other_constraint", "other.column") {
		t.Fatalf("unrelated hints must not match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "ux_users_username") {
		t.Fatalf("non-unique errors must not match")
	}
	if IsUniqueViolation(nil) {
		t.Fatalf("nil error must not match")
	}
}
