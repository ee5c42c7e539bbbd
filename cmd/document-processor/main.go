package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/docflowlabs/documentintake/internal/models"
	"github.com/docflowlabs/documentintake/internal/services"
)

var (
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the HTTP function with the framework.
	// "ProcessDocument" is the entry point name configured in GCP.
	functions.HTTP("ProcessDocument", handleProcessDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// handleProcessDocument is the HTTP handler for the document intake service.
func handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	// Preflight needs no clients and must work even if initialization fails.
	if r.Method == http.MethodOptions {
		services.WritePreflight(w)
		return
	}

	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		processorInstance, initErr = services.NewProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("CRITICAL: Processor initialization failed", "error", initErr)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "failed to initialize service"})
		return
	}

	processorInstance.ServeHTTP(w, r)
}
