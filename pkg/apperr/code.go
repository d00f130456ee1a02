package apperr

// Code is a machine-readable error code.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// Project errors.
const (
	CodeProjectNotFound     Code = "PROJECT_NOT_FOUND"
	CodeProjectCreateFailed Code = "PROJECT_CREATE_FAILED"
	CodeProjectListFailed   Code = "PROJECT_LIST_FAILED"
)

// Pipeline infrastructure errors. These indicate an upstream stage did not
// run or did not complete; continuing would produce a partially-populated
// graph, so callers terminate the run.
const (
	CodeStoreUnavailable    Code = "STORE_UNAVAILABLE"
	CodeNoFilesInProject    Code = "NO_FILES_IN_PROJECT"
	CodeInferredFileMissing Code = "INFERRED_FILE_MISSING"
)

// Resolution errors.
const (
	CodeReservedKeywordName Code = "RESERVED_KEYWORD_NAME"
	CodeComponentNotFound   Code = "COMPONENT_NOT_FOUND"
)

// Validation report errors.
const (
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeReportFailed     Code = "REPORT_FAILED"
)

// Health errors.
const (
	CodeDatabaseNotReady Code = "DATABASE_NOT_READY"
)
