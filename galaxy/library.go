package galaxy

import (
	"context"
	"net/http"
	"strings"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

// CreateLibrary creates a new data library with the given name and returns
// its server-assigned metadata.
//
// Errors:
//   - ErrInvalidInput: if name is empty or rejected by the server
//   - ErrUnauthorized: if the API key lacks permission to create libraries
//   - Network or server errors wrapped in Error type
func (c *Client) CreateLibrary(ctx context.Context, name string) (*galaxytypes.Library, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewError("createLibrary", errors.ErrInvalidInput).
			WithMessage("library name cannot be empty")
	}

	payload := map[string]string{"name": name}

	var library galaxytypes.Library
	if err := c.do(ctx, http.MethodPost, "api/libraries", jsonBody(payload), &library); err != nil {
		return nil, errors.NewLibraryError("createLibrary", name, err)
	}

	c.logger.Info("created galaxy library", "name", library.Name, "id", library.ID)
	return &library, nil
}

// GetLibraries lists the data libraries visible to the API key.
func (c *Client) GetLibraries(ctx context.Context) ([]galaxytypes.Library, error) {
	var libraries []galaxytypes.Library
	if err := c.do(ctx, http.MethodGet, "api/libraries", nil, &libraries); err != nil {
		return nil, errors.NewError("getLibraries", err)
	}
	return libraries, nil
}
