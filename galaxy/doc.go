// Package galaxy provides a typed client for the subset of the Galaxy
// HTTP API needed to bulk-load datasets into data libraries: creating a
// library, uploading files from a local path, inspecting dataset processing
// state, and renaming datasets.
//
// The client authenticates with an API key, retries throttled and
// server-side failures with exponential backoff, and logs through a
// caller-supplied slog.Logger.
//
// ## Thread Safety
//
// All Client methods are safe for concurrent use by multiple goroutines.
package galaxy
