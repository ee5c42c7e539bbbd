package gcp

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Entity is one structured entity extracted by the processor.
type Entity struct {
	Type        string
	Confidence  float32
	MentionText string
}

// ExtractionResult flattens the parts of a Document AI response this
// application reads. The full proto stays inside this package.
type ExtractionResult struct {
	Text      string
	MIMEType  string
	PageCount int
	Entities  []Entity
}

// DocumentAIClient wraps a DocumentProcessorClient bound to a single processor.
type DocumentAIClient struct {
	client        *documentai.DocumentProcessorClient
	processorName string
}

// NewDocumentAIClient creates a client against the regional Document AI
// endpoint for the given location ("us" or "eu").
func NewDocumentAIClient(ctx context.Context, projectID, location, processorID string) (*DocumentAIClient, error) {
	if projectID == "" || location == "" || processorID == "" {
		return nil, fmt.Errorf("NewDocumentAIClient: projectID, location and processorID cannot be empty")
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("documentai.NewDocumentProcessorClient: %w", err)
	}

	return &DocumentAIClient{
		client:        client,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID),
	}, nil
}

// Process submits raw bytes to the processor and returns the extracted text
// and entity metadata. Errors are returned unclassified; the caller decides
// how to surface them.
func (c *DocumentAIClient) Process(ctx context.Context, content []byte, mimeType string) (*ExtractionResult, error) {
	req := &documentaipb.ProcessRequest{
		Name: c.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
	}

	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("documentai.ProcessDocument: %w", err)
	}

	doc := resp.GetDocument()
	result := &ExtractionResult{
		Text:      doc.GetText(),
		MIMEType:  doc.GetMimeType(),
		PageCount: len(doc.GetPages()),
	}
	for _, entity := range doc.GetEntities() {
		result.Entities = append(result.Entities, Entity{
			Type:        entity.GetType(),
			Confidence:  entity.GetConfidence(),
			MentionText: entity.GetMentionText(),
		})
	}

	return result, nil
}

func (c *DocumentAIClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
