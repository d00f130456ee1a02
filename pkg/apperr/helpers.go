package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNotFound returns true if the error is or wraps pgx.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsReservedKeyword returns true when resolution was refused because the name
// is a SQL reserved word. Callers drop the single record and continue.
func IsReservedKeyword(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code() == CodeReservedKeywordName
}

// IsFatal returns true when the error carries a pipeline-infrastructure code
// that must terminate the run rather than skip the current record.
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code() {
	case CodeStoreUnavailable, CodeNoFilesInProject, CodeInferredFileMissing:
		return true
	}
	return false
}
