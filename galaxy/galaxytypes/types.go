// Package galaxytypes provides shared type definitions for the Galaxy module.
package galaxytypes

import (
	"log/slog"
	"net/http"
	"time"
)

// DatasetState represents the server-side processing state of a dataset.
type DatasetState string

// Dataset states reported by the Galaxy API.
const (
	// DatasetStateNew indicates the dataset record was just created
	DatasetStateNew DatasetState = "new"

	// DatasetStateUpload indicates the dataset content is still arriving
	DatasetStateUpload DatasetState = "upload"

	// DatasetStateQueued indicates the dataset is waiting to be processed
	DatasetStateQueued DatasetState = "queued"

	// DatasetStateRunning indicates the dataset is being processed
	DatasetStateRunning DatasetState = "running"

	// DatasetStateOK indicates the dataset is ready for use
	DatasetStateOK DatasetState = "ok"

	// DatasetStateError indicates server-side processing failed
	DatasetStateError DatasetState = "error"

	// DatasetStatePaused indicates processing was paused by the server
	DatasetStatePaused DatasetState = "paused"

	// DatasetStateDiscarded indicates the dataset was discarded
	DatasetStateDiscarded DatasetState = "discarded"

	// DatasetStateFailedMetadata indicates metadata detection failed
	DatasetStateFailedMetadata DatasetState = "failed_metadata"
)

// Ready reports whether the dataset has finished processing successfully.
func (s DatasetState) Ready() bool {
	return s == DatasetStateOK
}

// Failed reports whether the dataset reached a terminal failure state.
// Unknown states are treated as still pending, not failed.
func (s DatasetState) Failed() bool {
	switch s {
	case DatasetStateError, DatasetStateDiscarded, DatasetStateFailedMetadata:
		return true
	default:
		return false
	}
}

// Library represents a Galaxy data library.
type Library struct {
	// ID is the server-assigned encoded library ID
	ID string `json:"id"`

	// Name is the library display name
	Name string `json:"name"`

	// Description is the optional library description
	Description string `json:"description,omitempty"`

	// RootFolderID is the encoded ID of the library's root folder
	RootFolderID string `json:"root_folder_id,omitempty"`
}

// LibraryDataset represents a dataset entry returned by a library upload.
type LibraryDataset struct {
	// ID is the server-assigned encoded dataset ID
	ID string `json:"id"`

	// Name is the dataset display name as stored by the server
	Name string `json:"name"`

	// URL is the API path for the dataset
	URL string `json:"url,omitempty"`
}

// DatasetInfo represents the detailed view of a library dataset.
type DatasetInfo struct {
	// ID is the server-assigned encoded dataset ID
	ID string `json:"id"`

	// Name is the dataset display name
	Name string `json:"name"`

	// State is the server-side processing state
	State DatasetState `json:"state"`

	// FileSize is the dataset size in bytes once known
	FileSize int64 `json:"file_size,omitempty"`

	// FileExt is the Galaxy datatype extension (e.g. fastqsanger.gz)
	FileExt string `json:"file_ext,omitempty"`
}

// ClientConfig holds configuration for the Galaxy client.
type ClientConfig struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
}

// UploadOptionConfig holds configuration for library upload operations via
// functional options.
type UploadOptionConfig struct {
	// FileType is the Galaxy datatype for the uploaded file (e.g.
	// fastqsanger, fastqsanger.gz). Defaults to auto-detection server-side.
	FileType string

	// DBKey is the genome build associated with the uploaded file.
	DBKey string

	// FolderID optionally targets a folder inside the library.
	FolderID string
}

// Option is a functional option for configuring the Galaxy client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring library uploads.
	UploadOption func(*UploadOptionConfig)
)
