// Package executor runs the upload half of the pipeline: it pushes planned
// tasks to Galaxy with bounded concurrency and hands each uploaded dataset
// to the rename queue.
package executor

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/galaxyapi"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/renamer"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// Executor uploads planned tasks into a Galaxy library.
type Executor struct {
	api     galaxyapi.LibraryAPI
	baseDir string
	workers int
	tracker bulktypes.ProgressTracker
}

// NewExecutor creates an executor. baseDir is the local directory task
// paths are relative to. workers bounds concurrent uploads; values below
// one mean serial uploads.
func NewExecutor(
	api galaxyapi.LibraryAPI,
	baseDir string,
	workers int,
	tracker bulktypes.ProgressTracker,
) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		api:     api,
		baseDir: baseDir,
		workers: workers,
		tracker: tracker,
	}
}

// Result accumulates the outcome of an upload pass.
type Result struct {
	// Uploaded is the number of files successfully uploaded
	Uploaded int

	// Bytes is the total bytes uploaded
	Bytes int64

	// Errors contains per-file upload failures
	Errors []bulktypes.UploadError
}

// Execute uploads every task into the given library, enqueueing each
// uploaded dataset for renaming. A failed upload is recorded and does not
// stop the remaining tasks; a cancelled context does.
func (e *Executor) Execute(
	ctx context.Context,
	libraryID string,
	tasks []*bulktypes.Task,
	renames *renamer.Renamer,
) *Result {
	result := &Result{}
	var mu sync.Mutex

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for _, task := range tasks {
		if ctx.Err() != nil {
			mu.Lock()
			result.Errors = append(result.Errors, bulktypes.UploadError{
				Path: task.Source.Path,
				Err:  ctx.Err(),
			})
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(task *bulktypes.Task) {
			defer wg.Done()
			defer func() { <-sem }()

			dataset, err := e.upload(ctx, libraryID, task)
			mu.Lock()
			if err != nil {
				result.Errors = append(result.Errors, bulktypes.UploadError{
					Path: task.Source.Path,
					Err:  err,
				})
				mu.Unlock()
				if e.tracker != nil {
					e.tracker.FileFailed(task.Source.Path, err)
				}
				return
			}
			result.Uploaded++
			result.Bytes += task.Source.Size
			mu.Unlock()

			if e.tracker != nil {
				e.tracker.FileUploaded(task.Source.Path, task.Source.Size)
			}
			renames.Enqueue(renamer.Job{
				Path:        task.Source.Path,
				DatasetID:   dataset.ID,
				DatasetName: task.DatasetName,
			})
		}(task)
	}

	wg.Wait()
	return result
}

func (e *Executor) upload(
	ctx context.Context,
	libraryID string,
	task *bulktypes.Task,
) (*galaxytypes.LibraryDataset, error) {
	localPath := filepath.Join(e.baseDir, filepath.FromSlash(task.Source.Path))
	return e.api.UploadFileFromLocalPath(ctx, libraryID, localPath,
		galaxy.WithFileType(task.FileType),
		galaxy.WithDBKey(task.DBKey),
	)
}
