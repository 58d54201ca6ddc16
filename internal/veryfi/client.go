package veryfi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// VeryfiError represents an error that occurred during a Veryfi API call.
// The service binding exposes no error-code taxonomy, so every failure
// mode (network, non-2xx, empty body) surfaces through this one type.
type VeryfiError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *VeryfiError) Error() string {
	if e.Err == nil {
		return "veryfi error: " + e.Op
	}
	return "veryfi error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *VeryfiError) Unwrap() error {
	return e.Err
}

// Client calls the Veryfi document-processing API.
type Client struct {
	clientID   string
	username   string
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// Config holds configuration for the Veryfi client
type Config struct {
	ClientID string
	Username string
	APIKey   string
	APIURL   string
	Timeout  time.Duration
}

// DefaultConfig returns a default configuration for the Veryfi client
func DefaultConfig() *Config {
	return &Config{
		APIURL:  "https://api.veryfi.com/api/v8/partner/documents/",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new Veryfi client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultConfig().APIURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultConfig().Timeout
	}

	return &Client{
		clientID: config.ClientID,
		username: config.Username,
		apiKey:   config.APIKey,
		apiURL:   apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ProcessDocument uploads a receipt image and returns the raw extraction
// result. One multipart POST, no retry; any failure is a *VeryfiError.
func (c *Client) ProcessDocument(ctx context.Context, imageData []byte, filename string) (*Document, error) {
	if c.clientID == "" || c.username == "" || c.apiKey == "" {
		return nil, &VeryfiError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("Veryfi credentials are not configured. Please set VERYFI_CLIENT_ID, VERYFI_USERNAME and VERYFI_API_KEY"),
		}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &VeryfiError{
			Op:  "build_multipart_body",
			Err: fmt.Errorf("failed to create form file: %w", err),
		}
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, &VeryfiError{
			Op:  "build_multipart_body",
			Err: fmt.Errorf("failed to write image bytes: %w", err),
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &VeryfiError{
			Op:  "build_multipart_body",
			Err: fmt.Errorf("failed to finalize multipart body: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return nil, &VeryfiError{
			Op:  "create_process_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", fmt.Sprintf("apikey %s:%s", c.username, c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &VeryfiError{
			Op:  "send_process_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &VeryfiError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &VeryfiError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	if len(respBody) == 0 {
		return nil, &VeryfiError{
			Op:  "check_api_response",
			Err: fmt.Errorf("empty response body"),
		}
	}

	return ParseDocument(respBody)
}
