package allocator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient calls a remote allocation service over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the service at baseURL
// (e.g. "http://localhost:8080"). A zero timeout means no timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// RequestJob issues GET /next with a JSON body and translates the answer.
// Transport and decode failures are returned wrapped in ErrServiceUnavailable.
func (c *HTTPClient) RequestJob(ctx context.Context, req JobRequest) (JobResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return JobResponse{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/next", bytes.NewReader(payload))
	if err != nil {
		return JobResponse{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return JobResponse{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	var body nextResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return JobResponse{}, fmt.Errorf("%w: decoding response: %w", ErrServiceUnavailable, err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return translate(req, resp.StatusCode, body)
}
