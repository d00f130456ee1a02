package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/codemap-labs/codemap/internal/extract"
	"github.com/codemap-labs/codemap/internal/extract/java"
	"github.com/codemap-labs/codemap/internal/extract/javascript"
	"github.com/codemap-labs/codemap/internal/extract/mybatis"
	"github.com/codemap-labs/codemap/internal/relationship"
	"github.com/codemap-labs/codemap/internal/store"
	"github.com/codemap-labs/codemap/pkg/models"
)

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".idea":        true,
	"node_modules": true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

var extTypes = map[string]models.FileType{
	".java": models.FileJava,
	".xml":  models.FileXML,
	".jsp":  models.FileJSP,
	".js":   models.FileJS,
	".ts":   models.FileTS,
	".tsx":  models.FileTS,
	".vue":  models.FileVue,
	".html": models.FileHTML,
	".htm":  models.FileHTML,
	".sql":  models.FileSQL,
	".csv":  models.FileCSV,
}

// scanner walks a repository root, registers every recognized source file,
// and feeds each one through the extractor for its language family.
type scanner struct {
	store     *store.Store
	builder   *relationship.Builder
	java      *java.Extractor
	js        *javascript.Extractor
	log       *slog.Logger
	projectID uuid.UUID
}

func newScanner(s *store.Store, b *relationship.Builder, projectID uuid.UUID, log *slog.Logger) *scanner {
	return &scanner{
		store:     s,
		builder:   b,
		java:      java.New(),
		js:        javascript.New(),
		log:       log,
		projectID: projectID,
	}
}

// walk scans root and returns the number of files registered.
func (sc *scanner) walk(ctx context.Context, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ftype, ok := extTypes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		if err := sc.scanFile(ctx, root, path, ftype); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func (sc *scanner) scanFile(ctx context.Context, root, path string, ftype models.FileType) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	sum := sha256.Sum256(content)

	file, err := sc.store.UpsertFile(ctx, store.UpsertFileParams{
		ProjectID: sc.projectID,
		Name:      filepath.Base(path),
		Path:      rel,
		Type:      ftype,
		Hash:      hex.EncodeToString(sum[:]),
		LineCount: lineCount(content),
	})
	if err != nil {
		return err
	}

	if err := sc.extract(file.ID, rel, content, ftype); err != nil {
		sc.log.Warn("extraction failed",
			slog.String("file", rel),
			slog.String("error", err.Error()))
		return sc.store.MarkFileError(ctx, file.ID, err.Error())
	}
	return nil
}

// extract routes one file to its language extractor and buffers the result on
// the builder. Files with nothing to extract (plain XML, SQL dumps, CSVs) are
// registered but produce no records.
func (sc *scanner) extract(fileID uuid.UUID, path string, content []byte, ftype models.FileType) error {
	input := extract.FileInput{Path: path, Content: content, Type: ftype}

	switch ftype {
	case models.FileXML:
		if !bytes.Contains(content, []byte("<mapper")) {
			return nil
		}
		queries, err := mybatis.Extract(input)
		if err != nil {
			return err
		}
		sc.builder.AddXMLQueries(fileID, queries)

	case models.FileJava:
		result, err := sc.java.Extract(input)
		if err != nil {
			return err
		}
		sc.builder.AddJavaResult(fileID, result)
		sc.builder.AddAPIMappings(fileID, result.Mappings)

	case models.FileJS, models.FileTS:
		calls, err := sc.js.Extract(input)
		if err != nil {
			return err
		}
		sc.builder.AddFrontendCalls(fileID, path, ftype, calls)

	case models.FileJSP, models.FileHTML, models.FileVue:
		calls, err := sc.js.ExtractEmbedded(input)
		if err != nil {
			return err
		}
		sc.builder.AddFrontendCalls(fileID, path, ftype, calls)
	}
	return nil
}

func lineCount(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
