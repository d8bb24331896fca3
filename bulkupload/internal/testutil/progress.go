package testutil

import "sync"

// MockProgressTracker records every progress callback for later assertion.
// Safe for concurrent use.
type MockProgressTracker struct {
	mu sync.Mutex

	StartedFiles int
	StartedBytes int64
	Uploaded     []string
	Failed       []string
	Renamed      []string
	Skipped      []string
	Completed    bool
}

// Start records the planned totals.
func (m *MockProgressTracker) Start(totalFiles int, totalBytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartedFiles = totalFiles
	m.StartedBytes = totalBytes
}

// FileUploaded records a successful upload.
func (m *MockProgressTracker) FileUploaded(path string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded = append(m.Uploaded, path)
}

// FileFailed records a failed upload.
func (m *MockProgressTracker) FileFailed(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failed = append(m.Failed, path)
}

// DatasetRenamed records a completed rename.
func (m *MockProgressTracker) DatasetRenamed(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Renamed = append(m.Renamed, name)
}

// RenameSkipped records a dataset that will never be renamed.
func (m *MockProgressTracker) RenameSkipped(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped = append(m.Skipped, name)
}

// Complete records the end of the run.
func (m *MockProgressTracker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed = true
}

// UploadedCount returns the number of recorded uploads.
func (m *MockProgressTracker) UploadedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploaded)
}

// RenamedCount returns the number of recorded renames.
func (m *MockProgressTracker) RenamedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Renamed)
}
