// Package renamer drives the post-upload half of the pipeline: a fixed
// worker pool that waits for each uploaded dataset to leave the upload
// queue and then renames it to its derived dataset name.
package renamer

import (
	"context"
	"sync"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/galaxyapi"
)

// DefaultWorkers is the default size of the rename worker pool.
const DefaultWorkers = 4

// Job identifies one uploaded dataset awaiting rename.
type Job struct {
	// Path is the source path the dataset was uploaded from
	Path string

	// DatasetID is the server-assigned dataset ID
	DatasetID string

	// DatasetName is the name to assign once the dataset is ready
	DatasetName string
}

// Renamer renames uploaded datasets once Galaxy has finished processing
// them. Jobs are queued with Enqueue and processed by a fixed pool of
// workers. A dataset that never becomes ready, or whose rename call fails,
// is recorded as a rename error without affecting other jobs.
type Renamer struct {
	api     galaxyapi.LibraryAPI
	tracker bulktypes.ProgressTracker
	workers int
	jobs    chan Job
	wg      sync.WaitGroup

	mu      sync.Mutex
	renamed int
	errors  []bulktypes.RenameError
}

// NewRenamer creates a renamer with the given pool size and queue
// capacity. Sizing the queue to the number of planned uploads keeps
// Enqueue from ever blocking the upload path.
func NewRenamer(
	api galaxyapi.LibraryAPI,
	workers int,
	queueSize int,
	tracker bulktypes.ProgressTracker,
) *Renamer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Renamer{
		api:     api,
		tracker: tracker,
		workers: workers,
		jobs:    make(chan Job, queueSize),
	}
}

// Start launches the worker pool. Workers exit when the queue is closed
// and drained.
func (r *Renamer) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for job := range r.jobs {
				r.process(ctx, job)
			}
		}()
	}
}

// Enqueue queues a dataset for renaming. Blocks if the queue is full.
func (r *Renamer) Enqueue(job Job) {
	r.jobs <- job
}

// Close signals that no further jobs will be enqueued.
func (r *Renamer) Close() {
	close(r.jobs)
}

// Wait blocks until every queued job has been processed.
func (r *Renamer) Wait() {
	r.wg.Wait()
}

// Results returns the number of renamed datasets and the recorded rename
// errors. Call after Wait.
func (r *Renamer) Results() (int, []bulktypes.RenameError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renamed, append([]bulktypes.RenameError(nil), r.errors...)
}

func (r *Renamer) process(ctx context.Context, job Job) {
	if _, err := r.api.WaitForDatasetOK(ctx, job.DatasetID); err != nil {
		r.recordError(job, err)
		return
	}

	if err := r.api.UpdateDatasetName(ctx, job.DatasetID, job.DatasetName); err != nil {
		r.recordError(job, err)
		return
	}

	r.mu.Lock()
	r.renamed++
	r.mu.Unlock()

	if r.tracker != nil {
		r.tracker.DatasetRenamed(job.DatasetName)
	}
}

func (r *Renamer) recordError(job Job, err error) {
	r.mu.Lock()
	r.errors = append(r.errors, bulktypes.RenameError{
		Path:        job.Path,
		DatasetID:   job.DatasetID,
		DatasetName: job.DatasetName,
		Err:         err,
	})
	r.mu.Unlock()

	if r.tracker != nil {
		r.tracker.RenameSkipped(job.DatasetName, err)
	}
}
