package apperr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InvalidID(entity string) *Error {
	return New(CodeInvalidID, http.StatusBadRequest, "Invalid "+entity+" ID")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

// --- Project ---

func ProjectNotFound() *Error {
	return New(CodeProjectNotFound, http.StatusNotFound, "Project not found")
}

func ProjectCreateFailed(cause error) *Error {
	return Wrap(CodeProjectCreateFailed, http.StatusInternalServerError, "Failed to create project", cause)
}

func ProjectListFailed(cause error) *Error {
	return Wrap(CodeProjectListFailed, http.StatusInternalServerError, "Failed to list projects", cause)
}

// --- Pipeline infrastructure ---

func StoreUnavailable(cause error) *Error {
	return Wrap(CodeStoreUnavailable, http.StatusServiceUnavailable, "Metadata store is unreachable", cause)
}

// NoFilesInProject signals that the file-scan stage never ran or produced
// nothing: the inferred-entity factory has no file to attach components to.
func NoFilesInProject(project string) *Error {
	return New(CodeNoFilesInProject, http.StatusConflict,
		"Project "+project+" has no files; the scan stage must run before relationship building")
}

func InferredFileMissing(name string, cause error) *Error {
	return Wrap(CodeInferredFileMissing, http.StatusConflict,
		"No owning file could be resolved for inferred component "+name, cause)
}

// --- Resolution ---

// ReservedKeywordName reports a refusal to synthesize a component whose name
// is a SQL reserved word (keyword-as-alias false positive).
func ReservedKeywordName(name string) *Error {
	return New(CodeReservedKeywordName, http.StatusUnprocessableEntity,
		"Refusing to create component named after SQL keyword "+name)
}

func ComponentNotFound(name string) *Error {
	return New(CodeComponentNotFound, http.StatusNotFound, "Component not found: "+name)
}

// --- Validation ---

func ValidationFailed() *Error {
	return New(CodeValidationFailed, http.StatusConflict,
		"Consistency validation found structural violations")
}

func ReportFailed(cause error) *Error {
	return Wrap(CodeReportFailed, http.StatusInternalServerError, "Failed to build report", cause)
}

// --- Health ---

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}
