package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateRecordSendsAuthAndPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody createRecordRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"rec123"}`))
	}))
	defer srv.Close()

	c := New("secret-key")
	c.BaseURL = srv.URL

	err := c.CreateRecord(context.Background(), "appXYZ", "Documents", map[string]string{
		"Document_AI_Response": "Hello",
	})
	if err != nil {
		t.Fatalf("create record error: %v", err)
	}
	if gotPath != "/appXYZ/Documents" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
	if gotBody.Fields["Document_AI_Response"] != "Hello" {
		t.Fatalf("unexpected fields payload: %+v", gotBody.Fields)
	}
}

func TestCreateRecordNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"type":"INVALID_VALUE"}}`))
	}))
	defer srv.Close()

	c := New("secret-key")
	c.BaseURL = srv.URL

	err := c.CreateRecord(context.Background(), "appXYZ", "Documents", map[string]string{"f": "v"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "INVALID_VALUE") {
		t.Fatalf("error should carry the response body: %v", apiErr)
	}
}

func TestCreateRecordTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New("secret-key")
	c.BaseURL = srv.URL

	err := c.CreateRecord(context.Background(), "appXYZ", "Documents", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport error must not be an *APIError: %v", err)
	}
	if !strings.Contains(err.Error(), "Error making request to Airtable") {
		t.Fatalf("unexpected transport error message: %v", err)
	}
}
