package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: ApplicationPrimary}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"direct match", dup, ApplicationPrimary, true},
		{"wrapped match", fmt.Errorf("insert: %w", dup), ApplicationPrimary, true},
		{"other constraint", dup, UsersUsernameKey, false},
		{"other code", &pgconn.PgError{Code: "23503", ConstraintName: ApplicationPrimary}, ApplicationPrimary, false},
		{"plain error", errors.New("boom"), ApplicationPrimary, false},
		{"nil", nil, ApplicationPrimary, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateConstraintError(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(fmt.Errorf("x: %w", &pgconn.PgError{Code: "23503"})) {
		t.Fatal("expected foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation reported as foreign key violation")
	}
}
