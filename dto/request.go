package dto

import (
	"errors"
	"mime/multipart"

	"github.com/shopspring/decimal"
)

// DocumentMeta describes one uploaded file in a filing batch.
// FormTypeHint is optional; when set it overrides content classification the
// same way a recognizable filename does.
type DocumentMeta struct {
	Filename     string `json:"filename"`
	Password     string `json:"password,omitempty"`
	FormTypeHint string `json:"form_type_hint,omitempty"`
}

// UploadMetadata is the metadata JSON accompanying a multi-file upload.
type UploadMetadata struct {
	Documents []DocumentMeta `json:"documents"`
}

// FilingProcessRequest represents the incoming multi-document filing request.
type FilingProcessRequest struct {
	Files    []*multipart.FileHeader `form:"files[]" binding:"required"`
	Metadata string                  `form:"metadata" binding:"required"`

	// FilingStatus is optional; when present the response includes a
	// computed return summary alongside the mapped line items.
	FilingStatus string `form:"filing_status"`
}

// Validate performs basic validation on the request.
func (r *FilingProcessRequest) Validate() error {
	if len(r.Files) == 0 {
		return errors.New("at least one document is required")
	}
	if r.Metadata == "" {
		return errors.New("metadata is required")
	}
	return nil
}

// CalculateReturnRequest is the JSON body for the return calculation endpoint.
type CalculateReturnRequest struct {
	TotalIncome       decimal.Decimal  `json:"total_income"`
	WithheldTax       decimal.Decimal  `json:"withheld_tax"`
	FilingStatus      FilingStatus     `json:"filing_status" binding:"required"`
	ItemizedDeduction *decimal.Decimal `json:"itemized_deduction,omitempty"`
}
