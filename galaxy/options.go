package galaxy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// WithHTTPClient sets a custom HTTP client for API requests.
// Useful for tests and for instances behind custom TLS setups.
func WithHTTPClient(client *http.Client) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the timeout for individual API requests.
// Default is no timeout (0), since library uploads can be large.
// Ignored when a custom HTTP client is supplied.
func WithTimeout(timeout time.Duration) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with API requests.
func WithUserAgent(userAgent string) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		if userAgent != "" {
			c.UserAgent = userAgent
		}
	}
}

// WithMaxRetries sets the maximum number of retry attempts for throttled or
// failed requests. Default is 3 retries. Set to 0 to disable retries.
func WithMaxRetries(maxRetries int) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		if maxRetries >= 0 {
			c.MaxRetries = maxRetries
		}
	}
}

// WithRetryDelays sets the base and maximum delay for the exponential
// backoff between retries.
func WithRetryDelays(base, maxDelay time.Duration) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		if base > 0 {
			c.RetryBaseDelay = base
		}
		if maxDelay > 0 {
			c.RetryMaxDelay = maxDelay
		}
	}
}

// WithPollInterval sets the initial interval between dataset state polls.
// Default is 2 seconds.
func WithPollInterval(interval time.Duration) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

// WithPollTimeout sets the deadline for a dataset to reach the ok state.
// Default is 10 minutes.
func WithPollTimeout(timeout time.Duration) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		if timeout > 0 {
			c.PollTimeout = timeout
		}
	}
}

// WithLogger sets the structured logger used by the client.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) galaxytypes.Option {
	return func(c *galaxytypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithFileType sets the Galaxy datatype for an uploaded file
// (e.g. fastqsanger, fastqsanger.gz, fastqsanger.bz2).
func WithFileType(fileType string) galaxytypes.UploadOption {
	return func(c *galaxytypes.UploadOptionConfig) {
		c.FileType = fileType
	}
}

// WithDBKey sets the genome build associated with an uploaded file.
func WithDBKey(dbkey string) galaxytypes.UploadOption {
	return func(c *galaxytypes.UploadOptionConfig) {
		c.DBKey = dbkey
	}
}

// WithFolderID targets a folder inside the library instead of its root.
func WithFolderID(folderID string) galaxytypes.UploadOption {
	return func(c *galaxytypes.UploadOptionConfig) {
		c.FolderID = folderID
	}
}
