package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// MockAuthServer provides a configurable mock OAuth2 token endpoint for
// testing.
type MockAuthServer struct {
	Server *httptest.Server

	Token      string // access_token to return
	ExpiresIn  int64  // expires_in seconds; 0 omits the field
	StatusCode int    // HTTP status code to return (200 if not set)
	RawBody    string // overrides the JSON response entirely when set

	RequestCount int        // number of token requests received
	LastForm     url.Values // captured form body of the last request
}

// SetupMockAuthServer creates a mock token endpoint that answers
// client-credentials requests. Returns a MockAuthServer with configurable
// response values and request tracking.
func SetupMockAuthServer(t *testing.T) *MockAuthServer {
	t.Helper()

	mock := &MockAuthServer{
		Token:      "test-access-token",
		ExpiresIn:  3600,
		StatusCode: http.StatusOK,
	}

	router := http.NewServeMux()

	router.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		mock.RequestCount++

		if err := r.ParseForm(); err == nil {
			mock.LastForm = r.PostForm
		}

		if mock.StatusCode != http.StatusOK {
			w.WriteHeader(mock.StatusCode)
			_, _ = w.Write([]byte(mock.RawBody))
			return
		}

		if mock.RawBody != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(mock.RawBody))
			return
		}

		response := map[string]any{
			"access_token": mock.Token,
			"token_type":   "bearer",
		}
		if mock.ExpiresIn != 0 {
			response["expires_in"] = mock.ExpiresIn
		}

		WriteJSON(w, response)
	})

	mock.Server = httptest.NewServer(router)
	t.Cleanup(mock.Server.Close)

	return mock
}

// TokenURL returns the mock server's token endpoint.
func (m *MockAuthServer) TokenURL() string {
	return m.Server.URL + "/oauth2/token"
}

// MockAPIServer provides a configurable mock PartnerLink API server for
// testing the operation clients.
type MockAPIServer struct {
	Server *httptest.Server

	StatusCode int    // HTTP status code to return (200 if not set)
	Body       string // JSON body to return

	RequestCount   int    // number of requests received
	LastPath       string // captured path of the last request
	LastAuthHeader string // captured Authorization header of the last request
	LastBody       []byte // captured request body of the last request
}

// SetupMockAPIServer creates a catch-all mock API server that records the
// request and responds with the configured status and body.
func SetupMockAPIServer(t *testing.T) *MockAPIServer {
	t.Helper()

	mock := &MockAPIServer{
		StatusCode: http.StatusOK,
		Body:       "{}",
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.RequestCount++
		mock.LastPath = r.URL.Path
		mock.LastAuthHeader = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		mock.LastBody = body

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mock.StatusCode)
		_, _ = w.Write([]byte(mock.Body))
	}))
	t.Cleanup(mock.Server.Close)

	return mock
}

// WriteJSON is a helper function that writes a JSON response.
// It sets the Content-Type header and marshals the payload to JSON.
func WriteJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(payload)
	if err != nil {
		// In test context, this should never happen with valid test data
		http.Error(w, fmt.Sprintf("failed to marshal JSON: %v", err), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}
