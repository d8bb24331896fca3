// Package planner turns discovered FASTQ files into upload tasks.
// This includes deriving dataset names, picking the Galaxy datatype for
// each file's compression, and ordering tasks for execution.
package planner

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
)

// Planner creates upload plans from scan results.
type Planner struct {
	dbkey string
}

// NewPlanner creates a new planner. The dbkey is recorded on every task.
func NewPlanner(dbkey string) *Planner {
	return &Planner{dbkey: dbkey}
}

// Plan converts source files into upload tasks. Tasks are ordered smallest
// file first so a long run produces feedback quickly.
func (p *Planner) Plan(files []*bulktypes.SourceFile) ([]*bulktypes.Task, error) {
	tasks := make([]*bulktypes.Task, 0, len(files))

	for _, file := range files {
		name, err := DatasetName(file.Path)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, &bulktypes.Task{
			Source:      file,
			DatasetName: name,
			FileType:    file.Compression.FileType(),
			DBKey:       p.dbkey,
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Source.Size < tasks[j].Source.Size
	})

	return tasks, nil
}

// DatasetName derives the dataset name from a source path: the basename
// with everything from the first ".fastq" onwards stripped, so
// "run1/SRR1165236_1.fastq.gz" becomes "SRR1165236_1".
func DatasetName(sourcePath string) (string, error) {
	base := path.Base(sourcePath)
	idx := strings.Index(base, ".fastq")
	if idx <= 0 {
		return "", fmt.Errorf("cannot derive dataset name from %q", sourcePath)
	}
	return base[:idx], nil
}

// Stats contains statistics about a planned upload.
type Stats struct {
	// Files is the number of planned uploads
	Files int

	// Bytes is the total bytes to upload
	Bytes int64

	// DuplicateNames is the number of tasks whose dataset name collides
	// with another task. Galaxy allows duplicate names inside a library,
	// so collisions are reported rather than rejected.
	DuplicateNames int
}

// GetPlanStats returns statistics about the planned tasks.
func GetPlanStats(tasks []*bulktypes.Task) Stats {
	stats := Stats{Files: len(tasks)}

	seen := make(map[string]int, len(tasks))
	for _, task := range tasks {
		stats.Bytes += task.Source.Size
		seen[task.DatasetName]++
	}
	for _, count := range seen {
		if count > 1 {
			stats.DuplicateNames += count
		}
	}

	return stats
}
