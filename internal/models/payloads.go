package models

// These structs define the JSON payloads exchanged between the caller and
// the document-processor function. Nothing here is persisted.

// ProcessDocumentRequest is the input for the document-processor function.
type ProcessDocumentRequest struct {
	FileURL string `json:"fileUrl"`
}

// ProcessDocumentResponse is returned when the full chain succeeds.
type ProcessDocumentResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// ErrorResponse is returned for any failure, with a status code set by the handler.
type ErrorResponse struct {
	Error string `json:"error"`
}
