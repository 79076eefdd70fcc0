package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/taxlens/ocr-tax-extraction/dto"
)

// VendorResult is what the structured-extraction service returns: the full
// recognized text plus pre-labeled entities.
type VendorResult struct {
	Text     string       `json:"text"`
	Entities []dto.Entity `json:"entities"`
}

// DocAIClient talks to a vendor document-extraction HTTP API. Transient
// failures (network errors, timeouts, 429, 5xx) are retried a fixed number
// of times with a fixed delay; anything else fails immediately.
type DocAIClient struct {
	endpoint    string
	processorID string
	apiKey      string
	attempts    int
	delay       time.Duration
	httpClient  *http.Client
}

func NewDocAIClient(endpoint, processorID, apiKey string, attempts int, delay, timeout time.Duration) *DocAIClient {
	if attempts < 1 {
		attempts = 1
	}
	return &DocAIClient{
		endpoint:    endpoint,
		processorID: processorID,
		apiKey:      apiKey,
		attempts:    attempts,
		delay:       delay,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a vendor endpoint was configured at all.
func (c *DocAIClient) Enabled() bool {
	return c.endpoint != ""
}

type processRequest struct {
	ProcessorID string `json:"processor_id"`
	MimeType    string `json:"mime_type"`
	Content     string `json:"content"` // base64
}

// ProcessDocument submits the raw bytes and returns text plus entities.
// Exhausting retries surfaces a fatal AcquisitionError.
func (c *DocAIClient) ProcessDocument(ctx context.Context, data []byte, mimeType string) (*VendorResult, error) {
	payload, err := json.Marshal(processRequest{
		ProcessorID: c.processorID,
		MimeType:    mimeType,
		Content:     base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vendor request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			log.Printf("Vendor extraction retry %d/%d after error: %v", attempt, c.attempts, lastErr)
			select {
			case <-ctx.Done():
				return nil, &dto.AcquisitionError{Capability: "vendor", Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(c.delay):
			}
		}

		result, retryable, err := c.processOnce(ctx, payload)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, &dto.AcquisitionError{Capability: "vendor", Attempts: attempt, Err: err}
		}
		lastErr = err
	}

	return nil, &dto.AcquisitionError{Capability: "vendor", Attempts: c.attempts, Err: lastErr}
}

func (c *DocAIClient) processOnce(ctx context.Context, payload []byte) (*VendorResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network and timeout errors are worth retrying.
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("vendor API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result VendorResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode vendor response: %w", err)
	}
	if result.Text == "" && len(result.Entities) == 0 {
		return nil, false, fmt.Errorf("vendor returned an empty result")
	}

	return &result, false, nil
}
