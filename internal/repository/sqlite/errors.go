package sqlite

import (
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/news-api/internal/apperror"
)

// wrap prefixes err with the operation and attaches the SQLSTATE code that
// PostgreSQL would have reported for the same failure.
func wrap(op string, err error) error {
	return fmt.Errorf("sqlite: %s: %w", op, apperror.Backend(sqlState(err), err))
}

// sqlState translates a modernc driver error into a SQLSTATE code.
// Unknown errors map to "" and are classified as internal.
func sqlState(err error) string {
	var e *sqlitedrv.Error
	if !errors.As(err, &e) {
		return ""
	}

	switch e.Code() {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return apperror.CodeNotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return apperror.CodeForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return apperror.CodeUniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return checkState(e.Error())
	case sqlite3.SQLITE_MISMATCH:
		return apperror.CodeInvalidTextRepresentation
	}

	// Primary codes carry no detail beyond the message text.
	msg := e.Error()
	switch {
	case e.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		return constraintFromMessage(msg)
	case strings.Contains(msg, "integer overflow"):
		return apperror.CodeNumericValueOutOfRange
	case strings.Contains(msg, "no such table"):
		return apperror.CodeUndefinedTable
	case strings.Contains(msg, "no such column"):
		return apperror.CodeUndefinedColumn
	}
	return ""
}

func constraintFromMessage(msg string) string {
	switch {
	case strings.Contains(msg, "NOT NULL"):
		return apperror.CodeNotNullViolation
	case strings.Contains(msg, "FOREIGN KEY"):
		return apperror.CodeForeignKeyViolation
	case strings.Contains(msg, "UNIQUE"):
		return apperror.CodeUniqueViolation
	default:
		return checkState(msg)
	}
}

// checkState separates the *_range CHECK constraints, which play the part of
// PostgreSQL's INT column bounds, from ordinary check violations.
func checkState(msg string) string {
	if strings.Contains(msg, "_votes_range") {
		return apperror.CodeNumericValueOutOfRange
	}
	return apperror.CodeCheckViolation
}
