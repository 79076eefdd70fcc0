package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

func vendorResponse(t *testing.T, w http.ResponseWriter, result VendorResult) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(result))
}

func TestProcessDocumentSuccess(t *testing.T) {
	var gotAuth, gotMime string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req processRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotMime = req.MimeType
		vendorResponse(t, w, VendorResult{
			Text: "Wage and Tax Statement",
			Entities: []dto.Entity{
				{Type: "wages", MentionText: "52000.00", Confidence: 0.95},
			},
		})
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "secret", 3, time.Millisecond, time.Second)

	result, err := c.ProcessDocument(context.Background(), []byte("%PDF-"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/pdf", gotMime)
	assert.Equal(t, "Wage and Tax Statement", result.Text)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "wages", result.Entities[0].Type)
}

func TestProcessDocumentRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		vendorResponse(t, w, VendorResult{Text: "recovered"})
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "", 3, time.Millisecond, time.Second)

	result, err := c.ProcessDocument(context.Background(), []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProcessDocumentClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "", 3, time.Millisecond, time.Second)

	_, err := c.ProcessDocument(context.Background(), []byte("data"), "image/png")
	require.Error(t, err)
	assert.True(t, dto.IsAcquisitionError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestProcessDocumentExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still down", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "", 3, time.Millisecond, time.Second)

	_, err := c.ProcessDocument(context.Background(), []byte("data"), "image/png")
	require.Error(t, err)
	assert.True(t, dto.IsAcquisitionError(err))
	assert.Equal(t, int32(3), calls.Load())

	var acqErr *dto.AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, "vendor", acqErr.Capability)
	assert.Equal(t, 3, acqErr.Attempts)
}

func TestProcessDocumentEmptyResultFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vendorResponse(t, w, VendorResult{})
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "", 3, time.Millisecond, time.Second)

	_, err := c.ProcessDocument(context.Background(), []byte("data"), "image/png")
	require.Error(t, err)
	assert.True(t, dto.IsAcquisitionError(err))
}

func TestProcessDocumentContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewDocAIClient(server.URL, "proc-1", "", 3, time.Minute, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.ProcessDocument(ctx, []byte("data"), "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewDocAIClient("", "", "", 3, 0, time.Second).Enabled())
	assert.True(t, NewDocAIClient("http://localhost:1", "", "", 3, 0, time.Second).Enabled())
}
