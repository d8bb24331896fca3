package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_DrawsCounts(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Start(2, 3000)
	bar.FileUploaded("run1/a.fastq", 1000)
	bar.DatasetRenamed("a")
	bar.FileUploaded("run1/b.fastq", 2000)
	bar.DatasetRenamed("b")
	bar.Complete()

	out := buf.String()
	assert.Contains(t, out, "uploaded 2/2")
	assert.Contains(t, out, "renamed 2")
	assert.NotContains(t, out, "failed")

	// Updates rewrite the line in place.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestBar_ReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf)

	bar.Start(2, 200)
	bar.FileUploaded("good.fastq", 100)
	bar.FileFailed("bad.fastq", errors.New("server error"))
	bar.RenameSkipped("good", errors.New("timed out"))
	bar.Complete()

	out := buf.String()
	assert.Contains(t, out, "upload failed: bad.fastq: server error")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "rename skipped: good: timed out")
	assert.Contains(t, out, "1 not renamed")
}
