// Package testutil provides mock implementations shared by the pipeline
// package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// MockLibraryAPI is a configurable mock of the Galaxy client. Each method
// delegates to the corresponding function field when set and returns zero
// values otherwise. Call counters are safe for concurrent use.
type MockLibraryAPI struct {
	CreateLibraryFunc func(ctx context.Context, name string) (*galaxytypes.Library, error)
	UploadFunc        func(
		ctx context.Context,
		libraryID, localPath string,
		opts ...galaxytypes.UploadOption,
	) (*galaxytypes.LibraryDataset, error)
	WaitForDatasetOKFunc  func(ctx context.Context, datasetID string) (*galaxytypes.DatasetInfo, error)
	UpdateDatasetNameFunc func(ctx context.Context, datasetID, name string) error

	mu                sync.Mutex
	createLibraryN    int
	uploadN           int
	waitForDatasetN   int
	updateDatasetN    int
	uploadedPaths     []string
	renamedDatasetIDs []string
}

// CreateLibrary implements galaxyapi.LibraryAPI.
func (m *MockLibraryAPI) CreateLibrary(
	ctx context.Context,
	name string,
) (*galaxytypes.Library, error) {
	m.mu.Lock()
	m.createLibraryN++
	m.mu.Unlock()

	if m.CreateLibraryFunc != nil {
		return m.CreateLibraryFunc(ctx, name)
	}
	return &galaxytypes.Library{ID: "lib-1", Name: name}, nil
}

// UploadFileFromLocalPath implements galaxyapi.LibraryAPI.
func (m *MockLibraryAPI) UploadFileFromLocalPath(
	ctx context.Context,
	libraryID, localPath string,
	opts ...galaxytypes.UploadOption,
) (*galaxytypes.LibraryDataset, error) {
	m.mu.Lock()
	m.uploadN++
	m.uploadedPaths = append(m.uploadedPaths, localPath)
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, libraryID, localPath, opts...)
	}
	return &galaxytypes.LibraryDataset{ID: "ds-1", Name: localPath}, nil
}

// WaitForDatasetOK implements galaxyapi.LibraryAPI.
func (m *MockLibraryAPI) WaitForDatasetOK(
	ctx context.Context,
	datasetID string,
) (*galaxytypes.DatasetInfo, error) {
	m.mu.Lock()
	m.waitForDatasetN++
	m.mu.Unlock()

	if m.WaitForDatasetOKFunc != nil {
		return m.WaitForDatasetOKFunc(ctx, datasetID)
	}
	return &galaxytypes.DatasetInfo{ID: datasetID, State: galaxytypes.DatasetStateOK}, nil
}

// UpdateDatasetName implements galaxyapi.LibraryAPI.
func (m *MockLibraryAPI) UpdateDatasetName(ctx context.Context, datasetID, name string) error {
	m.mu.Lock()
	m.updateDatasetN++
	m.renamedDatasetIDs = append(m.renamedDatasetIDs, datasetID)
	m.mu.Unlock()

	if m.UpdateDatasetNameFunc != nil {
		return m.UpdateDatasetNameFunc(ctx, datasetID, name)
	}
	return nil
}

// CreateLibraryCalls returns how many times CreateLibrary was called.
func (m *MockLibraryAPI) CreateLibraryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLibraryN
}

// UploadCalls returns how many times UploadFileFromLocalPath was called.
func (m *MockLibraryAPI) UploadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadN
}

// WaitCalls returns how many times WaitForDatasetOK was called.
func (m *MockLibraryAPI) WaitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitForDatasetN
}

// RenameCalls returns how many times UpdateDatasetName was called.
func (m *MockLibraryAPI) RenameCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateDatasetN
}

// UploadedPaths returns the local paths passed to upload calls, in call
// order.
func (m *MockLibraryAPI) UploadedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploadedPaths...)
}

// RenamedDatasetIDs returns the dataset IDs passed to rename calls, in
// call order.
func (m *MockLibraryAPI) RenamedDatasetIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.renamedDatasetIDs...)
}
