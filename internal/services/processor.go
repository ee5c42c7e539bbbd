package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/docflowlabs/documentintake/internal/airtable"
	"github.com/docflowlabs/documentintake/internal/config"
	"github.com/docflowlabs/documentintake/internal/fetch"
	"github.com/docflowlabs/documentintake/internal/gcp"
	"github.com/docflowlabs/documentintake/internal/models"
)

// The source file is always submitted as PDF. The MIME type is fixed, not
// sniffed from the downloaded bytes.
const documentMIMEType = "application/pdf"

// airtableField is the column the extracted text is written to.
const airtableField = "Document_AI_Response"

const textPreviewLimit = 500

// StatusError is a failure the handler reports directly with its own status
// code and message. Anything else falls through to the catch-all 500.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

type documentProcessor interface {
	Process(ctx context.Context, content []byte, mimeType string) (*gcp.ExtractionResult, error)
}

type recordCreator interface {
	CreateRecord(ctx context.Context, baseID, tableName string, fields map[string]string) error
}

// ProcessorConfig holds configuration for the document-processor service.
type ProcessorConfig struct {
	ProcessorID       string
	BucketName        string
	AirtableBaseID    string
	AirtableTableName string
}

// ProcessorFunction holds dependencies for the intake chain.
type ProcessorFunction struct {
	config     ProcessorConfig
	httpClient *http.Client
	ocr        documentProcessor
	records    recordCreator
	bucket     *storage.BucketHandle // nil when archiving is not configured
}

// NewProcessor creates a new ProcessorFunction instance from the environment.
func NewProcessor(ctx context.Context) (*ProcessorFunction, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	ocrClient, err := gcp.NewDocumentAIClient(ctx, cfg.ProjectID, cfg.Location, cfg.ProcessorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}

	var bucket *storage.BucketHandle
	if cfg.BucketName != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		bucket = storageClient.Bucket(cfg.BucketName)
	}

	return &ProcessorFunction{
		config: ProcessorConfig{
			ProcessorID:       cfg.ProcessorID,
			BucketName:        cfg.BucketName,
			AirtableBaseID:    cfg.AirtableBaseID,
			AirtableTableName: cfg.AirtableTableName,
		},
		httpClient: http.DefaultClient,
		ocr:        ocrClient,
		records:    airtable.New(cfg.AirtableAPIKey),
		bucket:     bucket,
	}, nil
}

// WritePreflight answers a CORS preflight request. It touches no downstream
// service and works before the processor is initialized.
func WritePreflight(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Access-Control-Allow-Origin", "*")
	headers.Set("Access-Control-Allow-Methods", "POST")
	headers.Set("Access-Control-Allow-Headers", "Content-Type")
	headers.Set("Access-Control-Max-Age", "3600")
	w.WriteHeader(http.StatusNoContent)
}

// ServeHTTP handles one intake request: validate, fetch, OCR, push, respond.
func (f *ProcessorFunction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		WritePreflight(w)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")

	var req models.ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Could not decode request body", "error", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Bad Request: could not parse JSON"})
		return
	}
	if req.FileURL == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No file URL provided"})
		return
	}

	text, err := f.process(r.Context(), req.FileURL)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			writeJSON(w, statusErr.Code, models.ErrorResponse{Error: statusErr.Message})
			return
		}
		// Unclassified failure, including anything out of Document AI.
		msg := fmt.Sprintf("Error processing document: %v", err)
		slog.Error("Unclassified processing failure", "error", err, "fileUrl", req.FileURL)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, models.ProcessDocumentResponse{Success: true, Text: text})
}

// process runs the intake chain and returns the extracted text.
func (f *ProcessorFunction) process(ctx context.Context, fileURL string) (string, error) {
	logCtx := slog.With("fileUrl", fileURL)
	logCtx.Info("Downloading file from URL.")

	content, err := fetch.Download(ctx, f.httpClient, fileURL)
	if err != nil {
		var statusErr *fetch.StatusError
		switch {
		case errors.As(err, &statusErr):
			logCtx.Error("File download failed", "status", statusErr.Code)
			return "", &StatusError{Code: http.StatusBadRequest, Message: statusErr.Error()}
		case errors.Is(err, fetch.ErrEmptyFile):
			logCtx.Error("Downloaded file is empty")
			return "", &StatusError{Code: http.StatusBadRequest, Message: fetch.ErrEmptyFile.Error()}
		}
		// Transport failure: surfaced by the catch-all, matching the
		// unclassified Document AI path.
		return "", err
	}
	logCtx.Info("File downloaded.", "bytes", len(content))

	f.archive(ctx, logCtx, content)

	logCtx.Info("Submitting document for processing.", "processorId", f.config.ProcessorID, "bytes", len(content))
	result, err := f.ocr.Process(ctx, content, documentMIMEType)
	if err != nil {
		// Deliberately not classified here; see ServeHTTP.
		return "", err
	}

	logCtx.Info("Document processing completed.",
		"textLength", len(result.Text),
		"mimeType", result.MIMEType,
		"pageCount", result.PageCount,
		"textPreview", preview(result.Text))
	for _, entity := range result.Entities {
		logCtx.Info("Extracted entity.",
			"type", entity.Type,
			"confidence", entity.Confidence,
			"text", entity.MentionText)
	}

	logCtx.Info("Pushing extracted text to Airtable.",
		"base", f.config.AirtableBaseID, "table", f.config.AirtableTableName)
	err = f.records.CreateRecord(ctx, f.config.AirtableBaseID, f.config.AirtableTableName,
		map[string]string{airtableField: result.Text})
	if err != nil {
		var apiErr *airtable.APIError
		if errors.As(err, &apiErr) {
			logCtx.Error("Airtable rejected the record", "status", apiErr.StatusCode, "body", apiErr.Body)
			return "", &StatusError{Code: http.StatusInternalServerError, Message: apiErr.Error()}
		}
		logCtx.Error("Airtable request failed", "error", err)
		return "", &StatusError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	logCtx.Info("Successfully pushed extracted text to Airtable.")

	return result.Text, nil
}

// archive stores the downloaded bytes in GCS when a bucket is configured.
// Archiving is an observability aid: failures are logged and never surfaced.
func (f *ProcessorFunction) archive(ctx context.Context, logCtx *slog.Logger, content []byte) {
	if f.bucket == nil {
		return
	}
	objectName := fmt.Sprintf("intake/%x.pdf", sha256.Sum256(content))
	if err := gcp.ArchiveToGCS(ctx, f.bucket, objectName, content); err != nil {
		logCtx.Error("Failed to archive downloaded file", "error", err, "bucket", f.config.BucketName, "object", objectName)
		return
	}
	logCtx.Info("Archived downloaded file.", "bucket", f.config.BucketName, "object", objectName)
}

func preview(text string) string {
	if len(text) > textPreviewLimit {
		return text[:textPreviewLimit]
	}
	return text
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
