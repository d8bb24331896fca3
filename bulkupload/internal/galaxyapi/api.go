// Package galaxyapi defines the interface over the Galaxy client used by
// the upload pipeline, so pipeline components can be tested against mocks.
package galaxyapi

import (
	"context"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// LibraryAPI is the subset of the Galaxy client the pipeline depends on.
// *galaxy.Client satisfies this interface.
type LibraryAPI interface {
	// CreateLibrary creates a data library and returns its metadata.
	CreateLibrary(ctx context.Context, name string) (*galaxytypes.Library, error)

	// UploadFileFromLocalPath uploads a local file into a library.
	UploadFileFromLocalPath(
		ctx context.Context,
		libraryID, localPath string,
		opts ...galaxytypes.UploadOption,
	) (*galaxytypes.LibraryDataset, error)

	// WaitForDatasetOK polls a dataset until it is ready or permanently
	// failed.
	WaitForDatasetOK(ctx context.Context, datasetID string) (*galaxytypes.DatasetInfo, error)

	// UpdateDatasetName renames a library dataset.
	UpdateDatasetName(ctx context.Context, datasetID, name string) error
}
