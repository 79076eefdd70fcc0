package handler

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taxlens/ocr-tax-extraction/dto"
	"github.com/taxlens/ocr-tax-extraction/service"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	taxService      *service.TaxService
}

func NewDocumentHandler(documentService *service.DocumentService, taxService *service.TaxService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		taxService:      taxService,
	}
}

// ExtractDocument handles POST /documents/extract: one uploaded file in,
// one ExtractedForm out.
func (h *DocumentHandler) ExtractDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "file is required", err)
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read uploaded file", err)
		return
	}

	meta := dto.DocumentMeta{
		Filename:     fileHeader.Filename,
		Password:     c.PostForm("password"),
		FormTypeHint: c.PostForm("form_type_hint"),
	}

	form, err := h.documentService.ExtractDataFromTaxForm(c.Request.Context(), data, meta)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if dto.IsAcquisitionError(err) {
			status = http.StatusBadGateway
		}
		h.sendError(c, status, "EXTRACTION_FAILED", "document extraction failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.ExtractResponse{
		Form:        form,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// ProcessFiling handles POST /filings/process: all documents of one filing,
// extracted concurrently, then mapped to income line items. When a filing
// status is supplied the computed return rides along.
func (h *DocumentHandler) ProcessFiling(c *gin.Context) {
	log.Println("Received filing processing request")

	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse multipart form", err)
		return
	}

	request := &dto.FilingProcessRequest{
		Files:        form.File["files[]"],
		Metadata:     c.PostForm("metadata"),
		FilingStatus: c.PostForm("filing_status"),
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid filing request", err)
		return
	}

	var metadata dto.UploadMetadata
	if err := json.Unmarshal([]byte(request.Metadata), &metadata); err != nil {
		h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid metadata JSON", err)
		return
	}

	files := make(map[string][]byte, len(request.Files))
	for _, fileHeader := range request.Files {
		data, err := readUpload(fileHeader)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read uploaded file "+fileHeader.Filename, err)
			return
		}
		files[fileHeader.Filename] = data
	}

	log.Printf("Processing %d files", len(files))

	forms, err := h.documentService.ProcessFiling(c.Request.Context(), files, metadata)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if dto.IsAcquisitionError(err) {
			status = http.StatusBadGateway
		}
		h.sendError(c, status, "EXTRACTION_FAILED", "filing processing failed", err)
		return
	}

	mapping := h.taxService.MapExtractedDataToIncomeEntries(forms)

	response := dto.FilingProcessResponse{
		Forms:       forms,
		Mapping:     mapping,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}

	if request.FilingStatus != "" {
		result, err := h.taxService.CalculateTaxReturn(dto.CalculateReturnRequest{
			TotalIncome:  h.taxService.TotalIncome(mapping.LineItems),
			WithheldTax:  mapping.WithheldTax,
			FilingStatus: dto.FilingStatus(request.FilingStatus),
		})
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "CALCULATION_FAILED", "return calculation failed", err)
			return
		}
		response.Return = &result
	}

	log.Println("Filing processing completed successfully")
	c.JSON(http.StatusOK, response)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// sendError sends a structured error response. The code names the failure
// class; the message keeps its human wording with the error detail appended.
func (h *DocumentHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		log.Printf("Error: %s - %v", message, err)
		message = message + ": " + err.Error()
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
