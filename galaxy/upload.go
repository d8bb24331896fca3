package galaxy

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

const (
	// defaultFileType lets the server detect the datatype.
	defaultFileType = "auto"

	// defaultDBKey is Galaxy's "unspecified" genome build.
	defaultDBKey = "?"
)

// UploadFileFromLocalPath uploads the file at localPath into the library
// identified by libraryID and returns the created dataset entry.
//
// The file is streamed to the server as a multipart form; it is re-opened
// for each retry attempt. Galaxy responds with a single-element list of
// created datasets, which this method unwraps.
//
// Errors:
//   - ErrInvalidInput: if libraryID or localPath is empty
//   - ErrNotFound: if the library does not exist
//   - ErrEmptyResponse: if the server reports no created datasets
//   - Network or server errors wrapped in Error type
func (c *Client) UploadFileFromLocalPath(
	ctx context.Context,
	libraryID, localPath string,
	opts ...galaxytypes.UploadOption,
) (*galaxytypes.LibraryDataset, error) {
	if libraryID == "" {
		return nil, errors.NewError("upload", errors.ErrInvalidInput).
			WithMessage("library ID cannot be empty")
	}
	if localPath == "" {
		return nil, errors.NewLibraryError("upload", libraryID, errors.ErrInvalidInput).
			WithMessage("local path cannot be empty")
	}

	cfg := &galaxytypes.UploadOptionConfig{
		FileType: defaultFileType,
		DBKey:    defaultDBKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	makeBody := func() (io.Reader, string, error) {
		file, err := os.Open(localPath)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", localPath, err)
		}

		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		go func() {
			defer file.Close()
			err := writeUploadForm(mw, cfg, filepath.Base(localPath), file)
			if cerr := mw.Close(); err == nil {
				err = cerr
			}
			pw.CloseWithError(err)
		}()
		return pr, mw.FormDataContentType(), nil
	}

	var datasets []galaxytypes.LibraryDataset
	path := fmt.Sprintf("api/libraries/%s/contents", libraryID)
	if err := c.do(ctx, http.MethodPost, path, makeBody, &datasets); err != nil {
		return nil, errors.NewLibraryError("upload", libraryID, err).
			WithMessage(fmt.Sprintf("upload %s", localPath))
	}
	if len(datasets) == 0 {
		return nil, errors.NewLibraryError("upload", libraryID, errors.ErrEmptyResponse).
			WithMessage(fmt.Sprintf("upload %s", localPath))
	}

	dataset := datasets[0]
	c.logger.Debug("uploaded file to galaxy library",
		"library", libraryID, "path", localPath, "dataset", dataset.ID)
	return &dataset, nil
}

// writeUploadForm writes the multipart form fields Galaxy expects for a
// library upload from a local path.
func writeUploadForm(
	mw *multipart.Writer,
	cfg *galaxytypes.UploadOptionConfig,
	filename string,
	content io.Reader,
) error {
	fields := map[string]string{
		"create_type":   "file",
		"upload_option": "upload_file",
		"file_type":     cfg.FileType,
		"dbkey":         cfg.DBKey,
	}
	if cfg.FolderID != "" {
		fields["folder_id"] = cfg.FolderID
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("write form field %s: %w", name, err)
		}
	}

	part, err := mw.CreateFormFile("files_0|file_data", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("stream file content: %w", err)
	}
	return nil
}
