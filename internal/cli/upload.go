// Package cli wires command-line arguments to the bulk upload pipeline.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/bulkupload/bulktypes"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/internal/progress"
)

// Environment variables consulted when the matching flag is not given.
const (
	envGalaxyURL = "GALAXY_URL"
	envAPIKey    = "GALAXY_API_KEY"
)

const defaultDBKey = "mycoTube_H37RV"

// RunUpload executes the upload command using the provided arguments,
// writing the summary to stdout and progress and logs to stderr.
func RunUpload(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	uploadCmd := flag.NewFlagSet("bulk-upload-to-library", flag.ContinueOnError)
	uploadCmd.SetOutput(stderr)

	galaxyURL := uploadCmd.String("galaxy-url", "", "Galaxy server URL (default $GALAXY_URL)")
	apiKey := uploadCmd.String("api-key", "", "Galaxy API key (default $GALAXY_API_KEY)")
	dbkey := uploadCmd.String("dbkey", defaultDBKey, "genome build recorded on each dataset")
	uploadWorkers := uploadCmd.Int("upload-workers", 1, "number of concurrent uploads")
	renameWorkers := uploadCmd.Int("rename-workers", 4, "number of rename workers")
	pollInterval := uploadCmd.Duration("poll-interval", 2*time.Second, "initial interval between dataset state checks")
	pollTimeout := uploadCmd.Duration("poll-timeout", 10*time.Minute, "how long to wait for a dataset to become ready")
	dryRun := uploadCmd.Bool("dry-run", false, "list planned uploads without contacting the server")
	quiet := uploadCmd.Bool("quiet", false, "suppress progress output")
	verbose := uploadCmd.Bool("verbose", false, "enable debug logging")

	uploadCmd.Usage = func() {
		out := uploadCmd.Output()
		fmt.Fprintf(out, "Usage: %s [options] LIBRARY_NAME DATASETS_PATH\n", os.Args[0])
		fmt.Fprintln(out, "\nDescription:")
		fmt.Fprintln(out, "  Upload every FASTQ file under DATASETS_PATH into a new Galaxy data")
		fmt.Fprintln(out, "  library named LIBRARY_NAME, then rename each dataset after the file")
		fmt.Fprintln(out, "  it came from.")
		fmt.Fprintln(out, "")
		uploadCmd.PrintDefaults()
	}

	if err := uploadCmd.Parse(args); err != nil {
		return err
	}
	if uploadCmd.NArg() != 2 {
		uploadCmd.Usage()
		return fmt.Errorf("LIBRARY_NAME and DATASETS_PATH required")
	}
	libraryName := uploadCmd.Arg(0)
	datasetsPath := uploadCmd.Arg(1)

	serverURL := *galaxyURL
	if serverURL == "" {
		serverURL = os.Getenv(envGalaxyURL)
	}
	key := *apiKey
	if key == "" {
		key = os.Getenv(envAPIKey)
	}
	if !*dryRun {
		if serverURL == "" {
			return fmt.Errorf("galaxy URL required (--galaxy-url or $%s)", envGalaxyURL)
		}
		if key == "" {
			return fmt.Errorf("API key required (--api-key or $%s)", envAPIKey)
		}
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	runOpts := []bulktypes.RunOption{
		bulkupload.WithDBKey(*dbkey),
		bulkupload.WithUploadWorkers(*uploadWorkers),
		bulkupload.WithRenameWorkers(*renameWorkers),
		bulkupload.WithDryRun(*dryRun),
	}
	if !*quiet && !*dryRun {
		runOpts = append(runOpts, bulkupload.WithProgressTracker(progress.NewBar(stderr)))
	}

	if *dryRun && serverURL == "" {
		// A dry run never talks to the server, so a placeholder URL is
		// good enough to construct the client.
		serverURL = "http://localhost"
	}
	client, err := galaxy.NewClient(serverURL, key,
		galaxy.WithPollInterval(*pollInterval),
		galaxy.WithPollTimeout(*pollTimeout),
		galaxy.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	uploader := bulkupload.New(client)

	result, err := uploader.Run(ctx, libraryName, datasetsPath, runOpts...)
	if err != nil {
		return err
	}

	printSummary(stdout, result)
	if result.Failed() {
		return fmt.Errorf("%d of %d uploads failed", len(result.UploadErrors), result.FilesFound)
	}
	return nil
}

func printSummary(w io.Writer, result *bulktypes.Result) {
	if result.DryRun {
		fmt.Fprintf(w, "dry run: %d FASTQ files would be uploaded to library %q\n",
			result.FilesFound, result.LibraryName)
		return
	}

	fmt.Fprintf(w, "library %q (%s): uploaded %d of %d files (%s), renamed %d, in %s\n",
		result.LibraryName,
		result.LibraryID,
		result.FilesUploaded,
		result.FilesFound,
		humanize.Bytes(uint64(result.BytesUploaded)),
		result.FilesRenamed,
		result.Duration.Round(time.Millisecond),
	)
	for _, uploadErr := range result.UploadErrors {
		fmt.Fprintf(w, "upload failed: %s: %v\n", uploadErr.Path, uploadErr.Err)
	}
	for _, renameErr := range result.RenameErrors {
		fmt.Fprintf(w, "not renamed: %s (dataset %s): %v\n",
			renameErr.DatasetName, renameErr.DatasetID, renameErr.Err)
	}
}
