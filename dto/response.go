package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractResponse wraps a single extracted form.
type ExtractResponse struct {
	Form        ExtractedForm `json:"form"`
	ProcessedAt string        `json:"processed_at"`
}

// FilingProcessResponse is the result of processing all documents of one filing.
type FilingProcessResponse struct {
	Forms       []ExtractedForm       `json:"forms"`
	Mapping     MappingResult         `json:"mapping"`
	Return      *TaxComputationResult `json:"return,omitempty"`
	ProcessedAt string                `json:"processed_at"`
}
