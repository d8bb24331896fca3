package galaxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// pollBackoffFactor and pollMaxInterval shape the growing sleep between
// dataset state polls. The interval starts at the configured poll interval
// and grows until capped, so a slow server is not hammered for minutes.
const (
	pollBackoffFactor = 1.5
	pollMaxInterval   = 15 * time.Second
)

// ShowDataset returns the detailed view of a library dataset, including
// its server-side processing state.
func (c *Client) ShowDataset(ctx context.Context, datasetID string) (*galaxytypes.DatasetInfo, error) {
	if datasetID == "" {
		return nil, errors.NewError("showDataset", errors.ErrInvalidInput).
			WithMessage("dataset ID cannot be empty")
	}

	var info galaxytypes.DatasetInfo
	path := fmt.Sprintf("api/libraries/datasets/%s", datasetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, errors.NewDatasetError("showDataset", "", datasetID, err)
	}
	return &info, nil
}

// UpdateDatasetName renames a library dataset.
func (c *Client) UpdateDatasetName(ctx context.Context, datasetID, name string) error {
	if datasetID == "" {
		return errors.NewError("updateDatasetName", errors.ErrInvalidInput).
			WithMessage("dataset ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return errors.NewDatasetError("updateDatasetName", "", datasetID, errors.ErrInvalidInput).
			WithMessage("dataset name cannot be empty")
	}

	payload := map[string]string{"name": name}
	path := fmt.Sprintf("api/libraries/datasets/%s", datasetID)
	if err := c.do(ctx, http.MethodPatch, path, jsonBody(payload), nil); err != nil {
		return errors.NewDatasetError("updateDatasetName", "", datasetID, err)
	}

	c.logger.Debug("renamed galaxy dataset", "dataset", datasetID, "name", name)
	return nil
}

// WaitForDatasetOK polls a dataset's state until it reaches ok, a terminal
// failure state, or the configured poll timeout elapses. The interval
// between polls grows by pollBackoffFactor up to pollMaxInterval.
//
// Errors:
//   - ErrDatasetFailed: the dataset reached error, discarded or
//     failed_metadata and will never become ready
//   - ErrPollTimeout: the poll deadline elapsed with the dataset still
//     pending
func (c *Client) WaitForDatasetOK(ctx context.Context, datasetID string) (*galaxytypes.DatasetInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	interval := c.pollInterval
	for {
		info, err := c.ShowDataset(ctx, datasetID)
		if err != nil {
			// A timeout during the show call is reported as a poll
			// timeout rather than a connection error.
			if ctx.Err() == context.DeadlineExceeded {
				return nil, errors.NewDatasetError("waitForDataset", "", datasetID, errors.ErrPollTimeout)
			}
			return nil, err
		}

		switch {
		case info.State.Ready():
			return info, nil
		case info.State.Failed():
			return nil, errors.NewDatasetError("waitForDataset", "", datasetID,
				fmt.Errorf("%w: state %q", errors.ErrDatasetFailed, info.State))
		}

		c.logger.Debug("dataset not ready yet",
			"dataset", datasetID, "state", info.State, "next_poll", interval)

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return nil, errors.NewDatasetError("waitForDataset", "", datasetID, errors.ErrPollTimeout)
		}

		interval = time.Duration(float64(interval) * pollBackoffFactor)
		if interval > pollMaxInterval {
			interval = pollMaxInterval
		}
	}
}
