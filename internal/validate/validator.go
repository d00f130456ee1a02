// Package validate audits the built metadata graph after all relationship
// passes complete. It is read-only: violations are reported, never repaired.
package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/pkg/apperr"
	"github.com/codemap-labs/codemap/pkg/models"
)

// Store is the read-only slice of the metadata store the validator needs.
type Store interface {
	ListFilesByProject(ctx context.Context, projectID uuid.UUID) ([]models.File, error)
	ListClassesByProject(ctx context.Context, projectID uuid.UUID) ([]models.Class, error)
	ListComponentsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Component, error)
	ListRelationshipsByProject(ctx context.Context, projectID uuid.UUID) ([]models.Relationship, error)
}

// Violation codes. The FK_, DUP_, API_, SELF_ and BAD_ categories are fatal;
// WARN_ findings are informational.
const (
	CodeFKFiles         = "FK_VIOLATION_FILES"
	CodeFKComponents    = "FK_VIOLATION_COMPONENTS"
	CodeFKClasses       = "FK_VIOLATION_CLASSES"
	CodeFKRelationships = "FK_VIOLATION_RELATIONSHIPS"
	CodeDupFile         = "DUP_FILE"
	CodeDupMethod       = "DUP_METHOD"
	CodeAPIMultiHandler = "API_MULTI_HANDLER"
	CodeDupAPIURL       = "DUP_API_URL"
	CodeSelfRel         = "SELF_RELATIONSHIP"
	CodeBadMethodParent = "BAD_METHOD_PARENT"
	CodeBadColumnParent = "BAD_COLUMN_PARENT"

	CodeWarnAPINoHandler  = "WARN_API_NO_HANDLER"
	CodeWarnMethodNoQuery = "WARN_METHOD_NO_QUERY"
	CodeWarnQueryNoTable  = "WARN_QUERY_NO_TABLE"
	CodeWarnSharedAPI     = "WARN_SHARED_API_URL"
)

// Violation is one finding, fatal or informational.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Report aggregates every finding of one validation pass. Fatal findings and
// warnings are kept apart; only the former fail the run.
type Report struct {
	Fatal    []Violation `json:"fatal"`
	Warnings []Violation `json:"warnings"`
}

// Failed reports whether any fatal violation was found.
func (r *Report) Failed() bool { return len(r.Fatal) > 0 }

func (r *Report) fatal(code, format string, args ...any) {
	r.Fatal = append(r.Fatal, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warn(code, format string, args ...any) {
	r.Warnings = append(r.Warnings, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Print writes the full report, red for fatal findings and yellow for
// warnings.
func (r *Report) Print(w io.Writer) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	for _, v := range r.Fatal {
		red.Fprintf(w, "FATAL %-28s %s\n", v.Code, v.Message)
	}
	for _, v := range r.Warnings {
		yellow.Fprintf(w, "WARN  %-28s %s\n", v.Code, v.Message)
	}
	if r.Failed() {
		red.Fprintf(w, "validation failed: %d fatal, %d warnings\n", len(r.Fatal), len(r.Warnings))
	} else {
		green.Fprintf(w, "validation clean: %d warnings\n", len(r.Warnings))
	}
}

// Validator runs the post-build structural checks for one project.
type Validator struct {
	store Store
	log   *slog.Logger
}

func New(st Store, log *slog.Logger) *Validator {
	return &Validator{store: st, log: log}
}

// Run loads the project's rows and performs every check, returning the full
// aggregated report. All findings of one pass are reported together so an
// operator can fix them in one round.
func (v *Validator) Run(ctx context.Context, projectID uuid.UUID) (*Report, error) {
	files, err := v.store.ListFilesByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	classes, err := v.store.ListClassesByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	components, err := v.store.ListComponentsByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	relationships, err := v.store.ListRelationshipsByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}

	report := &Report{}

	fileIDs := make(map[uuid.UUID]models.File, len(files))
	for _, f := range files {
		fileIDs[f.ID] = f
	}
	classIDs := make(map[uuid.UUID]models.Class, len(classes))
	for _, c := range classes {
		classIDs[c.ID] = c
	}
	compIDs := make(map[uuid.UUID]models.Component, len(components))
	for _, c := range components {
		compIDs[c.ID] = c
	}

	v.checkForeignKeys(report, projectID, files, classes, components, relationships, fileIDs, classIDs, compIDs)
	v.checkUniqueness(report, files, components, relationships, compIDs)
	v.checkSanity(report, components, relationships, classIDs, compIDs)
	v.checkInformational(report, components, relationships, classIDs, compIDs)

	for _, f := range report.Fatal {
		v.log.Error("structural violation", "code", f.Code, "detail", f.Message)
	}
	for _, w := range report.Warnings {
		v.log.Warn("validation warning", "code", w.Code, "detail", w.Message)
	}

	return report, nil
}

func (v *Validator) checkForeignKeys(report *Report, projectID uuid.UUID,
	files []models.File, classes []models.Class, components []models.Component,
	relationships []models.Relationship,
	fileIDs map[uuid.UUID]models.File, classIDs map[uuid.UUID]models.Class,
	compIDs map[uuid.UUID]models.Component) {

	for _, f := range files {
		if f.ProjectID != projectID {
			report.fatal(CodeFKFiles, "file %s belongs to project %s, expected %s", f.Path, f.ProjectID, projectID)
		}
	}
	for _, c := range components {
		if _, ok := fileIDs[c.FileID]; !ok {
			report.fatal(CodeFKComponents, "component %s (%s) references missing file %s", c.Name, c.Type, c.FileID)
		}
	}
	for _, c := range classes {
		if c.ParentClassID == nil {
			continue
		}
		if _, ok := classIDs[*c.ParentClassID]; !ok {
			report.fatal(CodeFKClasses, "class %s references missing parent class %s", c.QualifiedName, *c.ParentClassID)
		}
	}
	for _, r := range relationships {
		if _, ok := compIDs[r.SourceID]; !ok {
			report.fatal(CodeFKRelationships, "%s relationship %s has dangling source %s", r.Type, r.ID, r.SourceID)
		}
		if _, ok := compIDs[r.TargetID]; !ok {
			report.fatal(CodeFKRelationships, "%s relationship %s has dangling target %s", r.Type, r.ID, r.TargetID)
		}
	}
}

func (v *Validator) checkUniqueness(report *Report, files []models.File,
	components []models.Component, relationships []models.Relationship,
	compIDs map[uuid.UUID]models.Component) {

	seenFiles := make(map[string]bool, len(files))
	for _, f := range files {
		key := f.Name + "\x00" + f.Path
		if seenFiles[key] {
			report.fatal(CodeDupFile, "duplicate file %s/%s", f.Path, f.Name)
		}
		seenFiles[key] = true
	}

	type fileName struct {
		fileID uuid.UUID
		name   string
	}
	seenMethods := make(map[fileName]bool)
	seenAPIURLs := make(map[fileName]bool)
	for _, c := range components {
		key := fileName{fileID: c.FileID, name: c.Name}
		switch c.Type {
		case models.ComponentMethod:
			if seenMethods[key] {
				report.fatal(CodeDupMethod, "method %s extracted twice in file %s", c.Name, c.FileID)
			}
			seenMethods[key] = true
		case models.ComponentAPIURL:
			if seenAPIURLs[key] {
				report.fatal(CodeDupAPIURL, "duplicate API endpoint %s in file %s", c.Name, c.FileID)
			}
			seenAPIURLs[key] = true
		}
	}

	handlers := make(map[uuid.UUID]int)
	for _, r := range relationships {
		if r.Type != models.RelCallMethod {
			continue
		}
		src, ok := compIDs[r.SourceID]
		if !ok || src.Type != models.ComponentAPIURL {
			continue
		}
		handlers[r.SourceID]++
	}
	for id, n := range handlers {
		if n > 1 {
			report.fatal(CodeAPIMultiHandler, "API endpoint %s is linked to %d handler methods", compIDs[id].Name, n)
		}
	}
}

func (v *Validator) checkSanity(report *Report, components []models.Component,
	relationships []models.Relationship,
	classIDs map[uuid.UUID]models.Class, compIDs map[uuid.UUID]models.Component) {

	for _, r := range relationships {
		if r.SourceID == r.TargetID {
			report.fatal(CodeSelfRel, "%s relationship %s loops on component %s", r.Type, r.ID, r.SourceID)
		}
	}

	for _, c := range components {
		switch c.Type {
		case models.ComponentMethod:
			if c.ParentID == nil {
				continue
			}
			if _, ok := classIDs[*c.ParentID]; !ok {
				report.fatal(CodeBadMethodParent, "method %s parent %s is not a class", c.Name, *c.ParentID)
			}
		case models.ComponentColumn:
			if c.ParentID == nil {
				continue
			}
			parent, ok := compIDs[*c.ParentID]
			if !ok || parent.Type != models.ComponentTable {
				report.fatal(CodeBadColumnParent, "column %s parent %s is not a TABLE component", c.Name, *c.ParentID)
			}
		}
	}
}

// checkInformational emits the never-fatal findings: endpoints nobody
// implements, data-access methods with no linked query, SQL statements with no
// table, and endpoints shared across many frontend files.
func (v *Validator) checkInformational(report *Report, components []models.Component,
	relationships []models.Relationship,
	classIDs map[uuid.UUID]models.Class, compIDs map[uuid.UUID]models.Component) {

	outgoing := make(map[uuid.UUID]map[models.RelType]int)
	callers := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, r := range relationships {
		if outgoing[r.SourceID] == nil {
			outgoing[r.SourceID] = make(map[models.RelType]int)
		}
		outgoing[r.SourceID][r.Type]++

		if r.Type == models.RelCallsAPI {
			src, ok := compIDs[r.SourceID]
			if !ok {
				continue
			}
			if callers[r.TargetID] == nil {
				callers[r.TargetID] = make(map[uuid.UUID]bool)
			}
			callers[r.TargetID][src.FileID] = true
		}
	}

	for _, c := range components {
		switch c.Type {
		case models.ComponentAPIURL:
			if outgoing[c.ID][models.RelCallMethod] == 0 {
				report.warn(CodeWarnAPINoHandler, "API endpoint %s has no backend handler", c.Name)
			}
			if n := len(callers[c.ID]); n > 3 {
				report.warn(CodeWarnSharedAPI, "API endpoint %s is called from %d frontend files", c.Name, n)
			}
		case models.ComponentMethod:
			if !isDataAccessMethod(c, classIDs) {
				continue
			}
			out := outgoing[c.ID]
			if out[models.RelCallQuery] == 0 && out[models.RelUsesEntity] == 0 {
				report.warn(CodeWarnMethodNoQuery, "method %s has no linked query", c.Name)
			}
		default:
			if c.Type.IsSQL() && outgoing[c.ID][models.RelUseTable] == 0 {
				report.warn(CodeWarnQueryNoTable, "statement %s references no table", c.Name)
			}
		}
	}
}

// isDataAccessMethod reports whether a METHOD component belongs to a class
// whose name marks it as a data-access layer (mapper, repository, DAO).
// Controller and service methods legitimately run no query, so they never
// trigger the no-linked-query warning.
func isDataAccessMethod(c models.Component, classIDs map[uuid.UUID]models.Class) bool {
	if c.ParentID == nil {
		return false
	}
	class, ok := classIDs[*c.ParentID]
	if !ok {
		return false
	}
	return strings.HasSuffix(class.Name, "Mapper") ||
		strings.HasSuffix(class.Name, "Repository") ||
		strings.HasSuffix(class.Name, "Dao") ||
		strings.HasSuffix(class.Name, "DAO")
}
