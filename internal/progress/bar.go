// Package progress renders upload progress as a single updating terminal
// line.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// Bar writes a single-line progress display to an io.Writer, typically
// stderr. It implements the progress tracker interface used by bulk
// uploads and is safe for concurrent use.
type Bar struct {
	mu sync.Mutex
	w  io.Writer

	totalFiles int
	totalBytes int64

	uploaded      int
	failed        int
	bytesUploaded int64
	renamed       int
	skipped       int
}

// NewBar creates a progress bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start records the planned totals and draws the initial line.
func (b *Bar) Start(totalFiles int, totalBytes int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalFiles = totalFiles
	b.totalBytes = totalBytes
	b.draw()
}

// FileUploaded records a successful upload.
func (b *Bar) FileUploaded(path string, size int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploaded++
	b.bytesUploaded += size
	b.draw()
}

// FileFailed records a failed upload.
func (b *Bar) FileFailed(path string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed++
	fmt.Fprintf(b.w, "\rupload failed: %s: %v\n", path, err)
	b.draw()
}

// DatasetRenamed records a completed rename.
func (b *Bar) DatasetRenamed(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renamed++
	b.draw()
}

// RenameSkipped records a dataset that will never be renamed.
func (b *Bar) RenameSkipped(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skipped++
	fmt.Fprintf(b.w, "\rrename skipped: %s: %v\n", name, err)
	b.draw()
}

// Complete finishes the progress line.
func (b *Bar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draw()
	fmt.Fprintln(b.w)
}

// draw renders the current state. Callers hold b.mu.
func (b *Bar) draw() {
	fmt.Fprintf(b.w, "\ruploaded %d/%d (%s of %s), renamed %d",
		b.uploaded,
		b.totalFiles,
		humanize.Bytes(uint64(b.bytesUploaded)),
		humanize.Bytes(uint64(b.totalBytes)),
		b.renamed,
	)
	if b.failed > 0 {
		fmt.Fprintf(b.w, ", %d failed", b.failed)
	}
	if b.skipped > 0 {
		fmt.Fprintf(b.w, ", %d not renamed", b.skipped)
	}
}
