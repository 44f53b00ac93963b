package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ExternalAPIService issues JSON requests to a third party service.
type ExternalAPIService struct {
	client *http.Client
}

func NewExternalAPIService(timeout time.Duration) *ExternalAPIService {
	return &ExternalAPIService{client: &http.Client{Timeout: timeout}}
}

// makeRequest builds and executes a request, supporting optional query parameters and extra headers.
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint, token string, params url.Values, body interface{}, headers map[string]string) (*http.Response, error) {
	if params != nil {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return s.client.Do(req)
}

// Get makes a GET request with optional query parameters and headers.
func (s *ExternalAPIService) Get(ctx context.Context, endpoint, token string, params url.Values, headers map[string]string) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, token, params, nil, headers)
}

// Post makes a POST request with optional query parameters and headers.
func (s *ExternalAPIService) Post(ctx context.Context, endpoint, token string, params url.Values, body interface{}, headers map[string]string) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, token, params, body, headers)
}
