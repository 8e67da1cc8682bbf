// Package rest implements the request building and dispatch shared by the
// API operation clients. Operations are thin JSON-over-HTTP calls; anything
// stateful (authentication, pooling, telemetry) lives in the transport the
// client is constructed with.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBodyBytes bounds how much of an error response is read for
// diagnostics.
const maxErrorBodyBytes = 64 << 10 // 64 KB

// Client dispatches JSON requests against the PartnerLink API.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	marketplace string
	partnerTag  string
}

// New creates a REST client for the given endpoint. The httpClient is
// expected to already carry authentication; nil falls back to
// http.DefaultClient.
func New(endpoint string, httpClient *http.Client, marketplace, partnerTag string) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("endpoint must be configured")
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("could not parse endpoint URL: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:     u,
		httpClient:  httpClient,
		marketplace: marketplace,
		partnerTag:  partnerTag,
	}, nil
}

// Marketplace returns the configured marketplace identifier.
func (c *Client) Marketplace() string { return c.marketplace }

// PartnerTag returns the configured affiliate partner tag.
func (c *Client) PartnerTag() string { return c.partnerTag }

// Do sends a JSON request and decodes the JSON response into out. A non-2xx
// response is returned as *Error; out may be nil when no body is expected.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("could not parse request path: %w", err)
	}
	u := c.baseURL.ResolveReference(ref)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response from %s: %w", u.Path, err)
	}

	return nil
}

// Error is an API-level failure: the server answered, but with a non-success
// status. Code and Message are populated from the structured error body when
// one is present.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Status returns the HTTP status and a client-safe message.
func (e *Error) Status() (int, string) {
	return e.StatusCode, e.Message
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}
