// Package scanner discovers FASTQ files under the datasets directory.
// It walks the filesystem abstraction, selects files whose name contains
// ".fastq", and sniffs the content compression so the planner can pick the
// right Galaxy datatype.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/fs"
)

// fastqMarker is the substring that qualifies a filename as a FASTQ file,
// matching names like x.fastq, x.fastq.gz and x.fastq.bz2.
const fastqMarker = ".fastq"

// Scanner discovers FASTQ source files on a filesystem.
type Scanner struct {
	filesystem fs.Filesystem
}

// NewScanner creates a new scanner over the provided filesystem.
func NewScanner(filesystem fs.Filesystem) *Scanner {
	return &Scanner{filesystem: filesystem}
}

// Scan walks the tree rooted at root and returns the FASTQ files found,
// with content compression detected for each. Paths in the returned files
// are relative to root.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*bulktypes.SourceFile, error) {
	var files []*bulktypes.SourceFile

	err := s.filesystem.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !isFastq(info.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		compression, err := s.detectCompression(path)
		if err != nil {
			return fmt.Errorf("detect compression of %s: %w", path, err)
		}

		files = append(files, &bulktypes.SourceFile{
			Path:        filepath.ToSlash(rel),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
			Compression: compression,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// isFastq reports whether the filename marks a FASTQ file, compressed or not.
func isFastq(name string) bool {
	return strings.Contains(name, fastqMarker) && !strings.HasPrefix(name, ".")
}

// detectCompression sniffs the file content to classify its compression.
// Detection is by magic bytes, not extension: a mislabeled .fastq file that
// is really gzip data still uploads with the right datatype.
func (s *Scanner) detectCompression(path string) (bulktypes.Compression, error) {
	file, err := s.filesystem.Open(path)
	if err != nil {
		return bulktypes.CompressionNone, err
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return bulktypes.CompressionNone, err
	}

	switch {
	case mtype.Is("application/gzip"):
		return bulktypes.CompressionGzip, nil
	case mtype.Is("application/x-bzip2"):
		return bulktypes.CompressionBzip2, nil
	default:
		return bulktypes.CompressionNone, nil
	}
}
