package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driving"
	"github.com/custodia-labs/repocorpus/internal/logger"
)

// Ensure FileProcessor implements the interface.
var _ driving.FileProcessor = (*FileProcessor)(nil)

// documentNamespace scopes document IDs.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/repocorpus/document"))

// FileProcessor turns fetch results into normalised documents.
type FileProcessor struct {
	registry driven.NormaliserRegistry
	workers  int
}

// NewFileProcessor creates a processor dispatching through registry.
// workers bounds the number of concurrent extractions in a batch.
func NewFileProcessor(registry driven.NormaliserRegistry, workers int) *FileProcessor {
	if workers < domain.MinWorkers {
		workers = domain.DefaultWorkers
	}
	return &FileProcessor{
		registry: registry,
		workers:  workers,
	}
}

// ProcessFile normalises one fetch result. Preconditions are checked in
// order before any file is opened: an upstream error is propagated, then
// a missing local path and a nonexistent file are reported. Extraction
// failures become failure documents.
func (p *FileProcessor) ProcessFile(ctx context.Context, result domain.FetchResult) (doc domain.Document) {
	if result.Failed() {
		return domain.FailedDocument(result.Err())
	}

	localPath := result.LocalPath()
	if localPath == "" {
		return p.fail(fmt.Sprintf("%v for file: %s", domain.ErrMissingLocalPath, result.File.Path))
	}

	if _, err := os.Stat(localPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p.fail(fmt.Sprintf("%v: %s", domain.ErrFileNotExist, localPath))
		}
		return p.fail(fmt.Sprintf("Error processing file %s: %v", localPath, err))
	}

	defer func() {
		if r := recover(); r != nil {
			doc = p.fail(fmt.Sprintf("Error processing file %s: %v", localPath, r))
		}
	}()

	name := result.File.Name
	if name == "" {
		name = filepath.Base(localPath)
	}
	meta := result.Metadata()
	meta["name"] = name

	normalised, err := p.registry.Normalise(ctx, name, localPath, meta)
	if err != nil {
		return p.fail(fmt.Sprintf("Error processing file %s: %v", localPath, err))
	}

	out := *normalised
	out.ID = DocumentID(result)
	return out
}

// ProcessFiles normalises every result concurrently and returns one
// document per result in input order.
func (p *FileProcessor) ProcessFiles(
	ctx context.Context, results []domain.FetchResult, progress driving.ProgressFunc,
) []domain.Document {
	docs := make([]domain.Document, len(results))

	forEach(ctx, len(results), p.workers,
		func(i int) {
			docs[i] = p.ProcessFile(ctx, results[i])
		},
		func(i int, err error) {
			docs[i] = domain.FailedDocument("processing cancelled: " + err.Error())
		},
		progress,
	)

	failed := 0
	for _, d := range docs {
		if d.Failed() {
			failed++
		}
	}
	logger.Info("processed %d of %d files (%d failed)", len(docs)-failed, len(docs), failed)
	return docs
}

func (p *FileProcessor) fail(msg string) domain.Document {
	logger.Warn("process: %s", msg)
	return domain.FailedDocument(msg)
}

// DocumentID derives a stable identifier from a result's origin.
// The same source, repository, path and blob SHA always give the same ID.
func DocumentID(result domain.FetchResult) string {
	key := result.Source + "\x00" + result.File.Repository + "\x00" + result.File.Path + "\x00" + result.File.SHA
	return uuid.NewSHA1(documentNamespace, []byte(key)).String()
}
