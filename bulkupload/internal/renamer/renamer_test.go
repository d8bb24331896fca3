package renamer

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/testutil"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

func runJobs(t *testing.T, r *Renamer, jobs []Job) {
	t.Helper()
	r.Start(context.Background())
	for _, job := range jobs {
		r.Enqueue(job)
	}
	r.Close()
	r.Wait()
}

func TestRenamer_RenamesReadyDatasets(t *testing.T) {
	api := &testutil.MockLibraryAPI{}
	tracker := &testutil.MockProgressTracker{}

	jobs := []Job{
		{Path: "a.fastq", DatasetID: "ds-a", DatasetName: "a"},
		{Path: "b.fastq.gz", DatasetID: "ds-b", DatasetName: "b"},
		{Path: "c.fastq.bz2", DatasetID: "ds-c", DatasetName: "c"},
	}

	r := NewRenamer(api, 2, len(jobs), tracker)
	runJobs(t, r, jobs)

	renamed, renameErrs := r.Results()
	assert.Equal(t, 3, renamed)
	assert.Empty(t, renameErrs)
	assert.Equal(t, 3, api.WaitCalls())
	assert.Equal(t, 3, api.RenameCalls())
	assert.ElementsMatch(t, []string{"ds-a", "ds-b", "ds-c"}, api.RenamedDatasetIDs())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, tracker.Renamed)
}

func TestRenamer_RecordsWaitFailures(t *testing.T) {
	api := &testutil.MockLibraryAPI{
		WaitForDatasetOKFunc: func(
			ctx context.Context,
			datasetID string,
		) (*galaxytypes.DatasetInfo, error) {
			if datasetID == "ds-bad" {
				return nil, errors.NewDatasetError("wait", "", datasetID, errors.ErrDatasetFailed)
			}
			return &galaxytypes.DatasetInfo{ID: datasetID, State: galaxytypes.DatasetStateOK}, nil
		},
	}
	tracker := &testutil.MockProgressTracker{}

	jobs := []Job{
		{Path: "good.fastq", DatasetID: "ds-good", DatasetName: "good"},
		{Path: "bad.fastq", DatasetID: "ds-bad", DatasetName: "bad"},
	}

	r := NewRenamer(api, 2, len(jobs), tracker)
	runJobs(t, r, jobs)

	renamed, renameErrs := r.Results()
	assert.Equal(t, 1, renamed)
	require.Len(t, renameErrs, 1)
	assert.Equal(t, "bad.fastq", renameErrs[0].Path)
	assert.Equal(t, "ds-bad", renameErrs[0].DatasetID)
	assert.True(t, errors.IsDatasetFailed(renameErrs[0].Err))

	// The failed dataset is never renamed.
	assert.Equal(t, []string{"ds-good"}, api.RenamedDatasetIDs())
	assert.Equal(t, []string{"bad"}, tracker.Skipped)
}

func TestRenamer_RecordsRenameFailures(t *testing.T) {
	api := &testutil.MockLibraryAPI{
		UpdateDatasetNameFunc: func(ctx context.Context, datasetID, name string) error {
			return errors.NewDatasetError("rename", "", datasetID, errors.ErrServer)
		},
	}

	r := NewRenamer(api, 1, 1, nil)
	runJobs(t, r, []Job{{Path: "a.fastq", DatasetID: "ds-a", DatasetName: "a"}})

	renamed, renameErrs := r.Results()
	assert.Equal(t, 0, renamed)
	require.Len(t, renameErrs, 1)
	assert.Equal(t, "a", renameErrs[0].DatasetName)
}

func TestRenamer_BoundsConcurrency(t *testing.T) {
	const workers = 4
	const jobCount = 20

	var inFlight, peak atomic.Int64
	api := &testutil.MockLibraryAPI{
		WaitForDatasetOKFunc: func(
			ctx context.Context,
			datasetID string,
		) (*galaxytypes.DatasetInfo, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return &galaxytypes.DatasetInfo{ID: datasetID, State: galaxytypes.DatasetStateOK}, nil
		},
	}

	jobs := make([]Job, 0, jobCount)
	for i := 0; i < jobCount; i++ {
		jobs = append(jobs, Job{
			Path:        fmt.Sprintf("f%d.fastq", i),
			DatasetID:   fmt.Sprintf("ds-%d", i),
			DatasetName: fmt.Sprintf("f%d", i),
		})
	}

	r := NewRenamer(api, workers, jobCount, nil)
	runJobs(t, r, jobs)

	renamed, renameErrs := r.Results()
	assert.Equal(t, jobCount, renamed)
	assert.Empty(t, renameErrs)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
}

func TestRenamer_DefaultsWorkerCount(t *testing.T) {
	r := NewRenamer(&testutil.MockLibraryAPI{}, 0, 1, nil)
	assert.Equal(t, DefaultWorkers, r.workers)
}
