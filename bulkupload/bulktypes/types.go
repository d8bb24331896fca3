// Package bulktypes provides shared type definitions for the bulk upload
// pipeline.
package bulktypes

import (
	"time"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/fs"
)

// Compression identifies the compression applied to a FASTQ file, detected
// from content magic rather than from the file extension.
type Compression string

// Compression types recognized by the scanner.
const (
	// CompressionNone indicates an uncompressed FASTQ file
	CompressionNone Compression = "none"

	// CompressionGzip indicates gzip compression
	CompressionGzip Compression = "gzip"

	// CompressionBzip2 indicates bzip2 compression
	CompressionBzip2 Compression = "bzip2"
)

// FileType returns the Galaxy datatype matching the compression.
func (c Compression) FileType() string {
	switch c {
	case CompressionGzip:
		return "fastqsanger.gz"
	case CompressionBzip2:
		return "fastqsanger.bz2"
	default:
		return "fastqsanger"
	}
}

// SourceFile represents a FASTQ file discovered under the datasets
// directory. Path is relative to the scan root.
type SourceFile struct {
	// Path is the file path relative to the scan root
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the file modification time
	ModTime time.Time

	// Compression is the detected content compression
	Compression Compression
}

/// Task represents one planned upload: a source file together with the
// derived dataset name and Galaxy upload attributes. Each task maps to
// exactly one remote dataset.
type Task struct {
	// Source is the file to upload
	Source *SourceFile

	// DatasetName is the target dataset name, the source basename
	// truncated at the first ".fastq"
	DatasetName string

	// FileType is the Galaxy datatype (fastqsanger, fastqsanger.gz, ...)
	FileType string

	// DBKey is the genome build to record on the dataset
	DBKey string
}

// UploadError records a failed upload.
type UploadError struct {
	// Path is the source path (relative to the scan root) that failed
	Path string

	// Err is the underlying error
	Err error
}

// RenameError records a dataset that was uploaded but could not be renamed,
// either because it never reached the ok state or because the rename call
// itself failed.
type RenameError struct {
	// Path is the source path the dataset came from
	Path string

	// DatasetID is the server-assigned dataset ID
	DatasetID string

	// DatasetName is the name the dataset should have received
	DatasetName string

	// Err is the underlying error
	Err error
}

// Result contains the outcome of a bulk upload run.
type Result struct {
	// LibraryID is the server-assigned ID of the created library
	LibraryID string

	// LibraryName is the name of the created library
	LibraryName string

	// FilesFound is the number of FASTQ files discovered
	FilesFound int

	// FilesUploaded is the number of files successfully uploaded
	FilesUploaded int

	// FilesRenamed is the number of datasets renamed to their derived name
	FilesRenamed int

	// BytesUploaded is the total bytes uploaded
	BytesUploaded int64

	// UploadErrors contains per-file upload failures
	UploadErrors []UploadError

	// RenameErrors contains datasets that were uploaded but never renamed
	RenameErrors []RenameError

	// DryRun indicates the run stopped after planning
	DryRun bool

	// Duration is how long the run took
	Duration time.Duration
}

// Failed reports whether any upload failed. Rename failures are reported
// but do not fail the run; the dataset content reached the server.
func (r *Result) Failed() bool {
	return len(r.UploadErrors) > 0
}

// ProgressTracker receives pipeline events for user-facing progress
// reporting. Implementations must be safe for concurrent use; upload and
// rename events arrive from different goroutines.
type ProgressTracker interface {
	// Start is called once with the planned totals before uploading begins
	Start(totalFiles int, totalBytes int64)

	// FileUploaded is called after each successful upload
	FileUploaded(path string, size int64)

	// FileFailed is called after each failed upload
	FileFailed(path string, err error)

	// DatasetRenamed is called after a dataset is renamed to its final name
	DatasetRenamed(name string)

	// RenameSkipped is called for datasets that will never be renamed
	RenameSkipped(name string, err error)

	// Complete is called once when the run finishes
	Complete()
}

// RunOptionConfig holds configuration for a bulk upload run via functional
// options.
type RunOptionConfig struct {
	UploadWorkers   int
	RenameWorkers   int
	DBKey           string
	DryRun          bool
	ProgressTracker ProgressTracker
	Filesystem      fs.Filesystem
}

// RunOption is a functional option for configuring a bulk upload run.
type RunOption func(*RunOptionConfig)
