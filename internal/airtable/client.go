// Package airtable is a minimal client for the Airtable REST API, covering
// only record creation.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// APIError reports a non-200 response from the Airtable API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Failed to push to Airtable: Status %d, Response: %s", e.StatusCode, e.Body)
}

// Client calls the Airtable REST API with bearer-token authentication.
type Client struct {
	// BaseURL is overridable for tests; it defaults to the public API.
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client authenticated with the given API key.
func New(apiKey string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

type createRecordRequest struct {
	Fields map[string]string `json:"fields"`
}

// CreateRecord creates one row in the given base and table.
//
// Any response other than 200 maps to *APIError; transport failures are
// returned wrapped but otherwise untyped.
func (c *Client) CreateRecord(ctx context.Context, baseID, tableName string, fields map[string]string) error {
	payload, err := json.Marshal(createRecordRequest{Fields: fields})
	if err != nil {
		return fmt.Errorf("encoding Airtable record: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.BaseURL, baseID, tableName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building Airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Error making request to Airtable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}
