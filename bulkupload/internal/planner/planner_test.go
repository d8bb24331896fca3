package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
)

func TestPlanner_Plan(t *testing.T) {
	files := []*bulktypes.SourceFile{
		{Path: "run1/SRR1165236_1.fastq.gz", Size: 2048, Compression: bulktypes.CompressionGzip},
		{Path: "run1/SRR1165236_2.fastq.gz", Size: 1024, Compression: bulktypes.CompressionGzip},
		{Path: "run2/sample.fastq", Size: 4096, Compression: bulktypes.CompressionNone},
		{Path: "run2/sample2.fastq.bz2", Size: 512, Compression: bulktypes.CompressionBzip2},
	}

	planner := NewPlanner("mycoTube_H37RV")
	tasks, err := planner.Plan(files)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	// Smallest file first.
	assert.Equal(t, "sample2", tasks[0].DatasetName)
	assert.Equal(t, "SRR1165236_2", tasks[1].DatasetName)
	assert.Equal(t, "SRR1165236_1", tasks[2].DatasetName)
	assert.Equal(t, "sample", tasks[3].DatasetName)

	assert.Equal(t, "fastqsanger.bz2", tasks[0].FileType)
	assert.Equal(t, "fastqsanger.gz", tasks[1].FileType)
	assert.Equal(t, "fastqsanger", tasks[3].FileType)

	for _, task := range tasks {
		assert.Equal(t, "mycoTube_H37RV", task.DBKey)
	}
}

func TestPlanner_Plan_Empty(t *testing.T) {
	planner := NewPlanner("?")
	tasks, err := planner.Plan(nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDatasetName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "plain fastq",
			path: "sample.fastq",
			want: "sample",
		},
		{
			name: "gzipped",
			path: "run1/SRR1165236_1.fastq.gz",
			want: "SRR1165236_1",
		},
		{
			name: "bzipped",
			path: "SRR1165236_2.fastq.bz2",
			want: "SRR1165236_2",
		},
		{
			name: "truncates at first fastq occurrence",
			path: "weird.fastq.fastq.gz",
			want: "weird",
		},
		{
			name:    "no fastq marker",
			path:    "reads.bam",
			wantErr: true,
		},
		{
			name:    "marker at start of basename",
			path:    "run1/.fastq.gz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatasetName(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPlanStats(t *testing.T) {
	tasks := []*bulktypes.Task{
		{Source: &bulktypes.SourceFile{Size: 100}, DatasetName: "a"},
		{Source: &bulktypes.SourceFile{Size: 200}, DatasetName: "b"},
		{Source: &bulktypes.SourceFile{Size: 300}, DatasetName: "a"},
	}

	stats := GetPlanStats(tasks)
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, int64(600), stats.Bytes)
	assert.Equal(t, 2, stats.DuplicateNames)
}

func TestGetPlanStats_Empty(t *testing.T) {
	stats := GetPlanStats(nil)
	assert.Equal(t, 0, stats.Files)
	assert.Equal(t, int64(0), stats.Bytes)
	assert.Equal(t, 0, stats.DuplicateNames)
}
