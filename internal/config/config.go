package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Local runs read a .env file; on GCP the variables come from the
	// function's deployment environment and no file exists.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: could not load .env file:", err)
		}
	}
}

// Config holds all deployment configuration for the document-processor function.
type Config struct {
	ProjectID   string // GCP project hosting the Document AI processor.
	Location    string // Document AI region, "us" or "eu".
	ProcessorID string // Document AI processor ID.
	BucketName  string // Optional GCS bucket for archiving downloaded files.

	AirtableAPIKey    string
	AirtableBaseID    string
	AirtableTableName string
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Load reads configuration from the environment and validates required values.
func Load() (*Config, error) {
	cfg := &Config{
		ProjectID:         GetEnv("PROJECT_ID", ""),
		Location:          GetEnv("LOCATION", ""),
		ProcessorID:       GetEnv("PROCESSOR_ID", ""),
		BucketName:        GetEnv("BUCKET_NAME", ""),
		AirtableAPIKey:    GetEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID:    GetEnv("AIRTABLE_BASE_ID", ""),
		AirtableTableName: GetEnv("AIRTABLE_TABLE_NAME", ""),
	}

	required := map[string]string{
		"PROJECT_ID":          cfg.ProjectID,
		"LOCATION":            cfg.Location,
		"PROCESSOR_ID":        cfg.ProcessorID,
		"AIRTABLE_API_KEY":    cfg.AirtableAPIKey,
		"AIRTABLE_BASE_ID":    cfg.AirtableBaseID,
		"AIRTABLE_TABLE_NAME": cfg.AirtableTableName,
	}
	for key, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable must be set", key)
		}
	}

	// The location is interpolated into the regional Document AI endpoint,
	// so only the documented regions are accepted.
	if cfg.Location != "us" && cfg.Location != "eu" {
		return nil, fmt.Errorf("LOCATION must be 'us' or 'eu', got %q", cfg.Location)
	}

	return cfg, nil
}
