package bulkupload

import (
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/fs"
)

// WithUploadWorkers sets the number of concurrent uploads. The default is
// one, matching the serial upload behaviour most Galaxy servers expect.
func WithUploadWorkers(workers int) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.UploadWorkers = workers
	}
}

// WithRenameWorkers sets the size of the rename worker pool. The default
// is four.
func WithRenameWorkers(workers int) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.RenameWorkers = workers
	}
}

// WithDBKey sets the genome build recorded on every uploaded dataset.
func WithDBKey(dbkey string) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.DBKey = dbkey
	}
}

// WithDryRun stops the run after planning. No library is created and
// nothing is uploaded.
func WithDryRun(dryRun bool) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.DryRun = dryRun
	}
}

// WithProgressTracker sets the progress tracker notified during the run.
func WithProgressTracker(tracker bulktypes.ProgressTracker) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.ProgressTracker = tracker
	}
}

// WithFilesystem sets the filesystem used to scan for FASTQ files. When
// set, the datasets path is interpreted relative to this filesystem's
// root. The default is the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) bulktypes.RunOption {
	return func(cfg *bulktypes.RunOptionConfig) {
		cfg.Filesystem = filesystem
	}
}
