package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlens/ocr-tax-extraction/dto"
	"github.com/taxlens/ocr-tax-extraction/service"
)

func documentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDocumentHandler(nil, service.NewTaxService())
	r.POST("/documents/extract", h.ExtractDocument)
	r.POST("/filings/process", h.ProcessFiling)
	return r
}

func postMultipart(t *testing.T, r *gin.Engine, path string, build func(*multipart.Writer)) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if build != nil {
		build(w)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestExtractDocumentMissingFile(t *testing.T) {
	r := documentRouter()

	rec := postMultipart(t, r, "/documents/extract", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Request-shape failures carry their own code, not the extraction one.
	assert.Equal(t, "INVALID_REQUEST", resp.Error)
	assert.Contains(t, resp.Message, "file is required")
}

func TestProcessFilingMissingFiles(t *testing.T) {
	r := documentRouter()

	rec := postMultipart(t, r, "/filings/process", func(w *multipart.Writer) {
		require.NoError(t, w.WriteField("metadata", `{"documents":[]}`))
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error)
	assert.Contains(t, resp.Message, "at least one document is required")
}

func TestProcessFilingBadMetadataJSON(t *testing.T) {
	r := documentRouter()

	rec := postMultipart(t, r, "/filings/process", func(w *multipart.Writer) {
		part, err := w.CreateFormFile("files[]", "w2.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-"))
		require.NoError(t, err)
		require.NoError(t, w.WriteField("metadata", "{not json"))
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error)
	assert.Contains(t, resp.Message, "invalid metadata JSON")
}
