package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrAlreadyRegistered = errors.New("user already registered for event")
	ErrEventNotFound     = errors.New("event not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameTaken     = errors.New("team name already taken")
	ErrTeamCodeTaken     = errors.New("team code already taken")
	ErrTeamFull          = errors.New("team is full")
	ErrAlreadyMember     = errors.New("user already a member of team")
	ErrAccountNotFound   = errors.New("account not found")
)

// uniqueViolation returns the violated constraint name, or "" when err is not a unique violation.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName
		}
		return pgErr.Message
	}

	return ""
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == pgerrcode.UndefinedTable || pgErr.Code == pgerrcode.InvalidSchemaName)
}

func constraintIs(name, suffix string) bool {
	return strings.HasSuffix(name, suffix) || strings.Contains(name, suffix+`"`)
}
