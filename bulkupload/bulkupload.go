// Package bulkupload uploads a directory tree of FASTQ files into a new
// Galaxy data library.
//
// A run walks the datasets directory for FASTQ files, creates the target
// library, uploads each file, and renames every dataset to a name derived
// from its filename once Galaxy has finished processing it. Uploads and
// renames overlap: uploaded datasets are handed to a bounded pool of
// rename workers while later uploads are still in flight.
//
// Basic usage:
//
//	client, err := galaxy.NewClient("https://galaxy.example.org", apiKey)
//	if err != nil {
//	    return err
//	}
//	uploader := bulkupload.New(client)
//	result, err := uploader.Run(ctx, "TB sequencing run 12", "/data/fastq")
//
// Thread Safety: an Uploader is safe for concurrent use, but each Run
// creates its own library, so concurrent runs should use distinct library
// names.
package bulkupload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/executor"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/galaxyapi"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/planner"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/renamer"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/internal/scanner"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/fs"
	billyfs "github.com/pvanheus/galaxy-bulk-upload-from-server/fs/billy"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy"
)

const (
	// defaultUploadWorkers is the default number of concurrent uploads.
	defaultUploadWorkers = 1

	// defaultDBKey lets Galaxy pick the genome build.
	defaultDBKey = "?"
)

// Uploader runs bulk uploads against a Galaxy server.
type Uploader struct {
	api galaxyapi.LibraryAPI
}

// New creates an Uploader backed by the given Galaxy client.
func New(client *galaxy.Client) *Uploader {
	return newUploader(client)
}

func newUploader(api galaxyapi.LibraryAPI) *Uploader {
	return &Uploader{api: api}
}

// Run uploads every FASTQ file under datasetsPath into a newly created
// library named libraryName.
//
// Run returns an error only when the run cannot proceed at all: invalid
// arguments, an unreadable datasets directory, no FASTQ files to upload,
// or a failed library creation. Per-file upload and rename failures are
// recorded in the Result instead; use Result.Failed to decide whether the
// run as a whole succeeded.
func (u *Uploader) Run(
	ctx context.Context,
	libraryName string,
	datasetsPath string,
	opts ...bulktypes.RunOption,
) (*bulktypes.Result, error) {
	start := time.Now()

	if strings.TrimSpace(libraryName) == "" {
		return nil, fmt.Errorf("library name cannot be empty")
	}
	if datasetsPath == "" {
		return nil, fmt.Errorf("datasets path cannot be empty")
	}

	cfg := &bulktypes.RunOptionConfig{
		UploadWorkers: defaultUploadWorkers,
		RenameWorkers: renamer.DefaultWorkers,
		DBKey:         defaultDBKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	filesystem, scanRoot, baseDir, err := resolveFilesystem(cfg.Filesystem, datasetsPath)
	if err != nil {
		return nil, err
	}

	info, err := filesystem.Stat(scanRoot)
	if err != nil {
		return nil, fmt.Errorf("datasets path %s: %w", datasetsPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("datasets path %s is not a directory", datasetsPath)
	}

	files, err := scanner.NewScanner(filesystem).Scan(ctx, scanRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", datasetsPath, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no FASTQ files found under %s", datasetsPath)
	}

	tasks, err := planner.NewPlanner(cfg.DBKey).Plan(files)
	if err != nil {
		return nil, err
	}
	stats := planner.GetPlanStats(tasks)

	result := &bulktypes.Result{
		LibraryName: libraryName,
		FilesFound:  stats.Files,
	}

	if cfg.DryRun {
		result.DryRun = true
		result.Duration = time.Since(start)
		return result, nil
	}

	if cfg.ProgressTracker != nil {
		cfg.ProgressTracker.Start(stats.Files, stats.Bytes)
	}

	library, err := u.api.CreateLibrary(ctx, libraryName)
	if err != nil {
		return nil, fmt.Errorf("create library %s: %w", libraryName, err)
	}
	result.LibraryID = library.ID

	renames := renamer.NewRenamer(u.api, cfg.RenameWorkers, len(tasks), cfg.ProgressTracker)
	renames.Start(ctx)

	uploads := executor.NewExecutor(u.api, baseDir, cfg.UploadWorkers, cfg.ProgressTracker)
	uploaded := uploads.Execute(ctx, library.ID, tasks, renames)

	renames.Close()
	renames.Wait()
	renamed, renameErrs := renames.Results()

	if cfg.ProgressTracker != nil {
		cfg.ProgressTracker.Complete()
	}

	result.FilesUploaded = uploaded.Uploaded
	result.BytesUploaded = uploaded.Bytes
	result.UploadErrors = uploaded.Errors
	result.FilesRenamed = renamed
	result.RenameErrors = renameErrs
	result.Duration = time.Since(start)

	return result, nil
}

// resolveFilesystem picks the filesystem and the two roots a run needs:
// the in-filesystem scan root and the local directory upload paths are
// resolved against. The default filesystem is the OS filesystem rooted at
// the datasets path; a caller-supplied filesystem interprets the datasets
// path as a path inside that filesystem.
func resolveFilesystem(
	filesystem fs.Filesystem,
	datasetsPath string,
) (fs.Filesystem, string, string, error) {
	if filesystem != nil {
		return filesystem, datasetsPath, datasetsPath, nil
	}

	abs, err := filepath.Abs(datasetsPath)
	if err != nil {
		return nil, "", "", fmt.Errorf("resolve datasets path %s: %w", datasetsPath, err)
	}
	return billyfs.NewOSFS(abs), ".", abs, nil
}
