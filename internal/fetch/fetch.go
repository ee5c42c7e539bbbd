package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrEmptyFile is returned when the source URL responds 200 with no content.
var ErrEmptyFile = errors.New("Downloaded file is empty")

// StatusError reports a non-200 response from the source URL.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to download file: Status %d", e.Code)
}

// Download fetches the file at fileURL and returns its raw bytes.
//
// A non-200 status maps to *StatusError and an empty body to ErrEmptyFile;
// both are input problems the handler reports as 400. Transport failures
// (DNS, connection refused) are returned as-is so they surface through the
// handler's catch-all instead.
func Download(ctx context.Context, client *http.Client, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading file body: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	return content, nil
}
