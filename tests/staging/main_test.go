//go:build staging

// Package staging drives a deployed hunt server over HTTP. Set API_URL and
// API_KEY to point it at an environment; the server must allow admin calls
// with that key.
package staging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	defaultStagingURL = "http://localhost:8080"
	defaultAPIKey     = "test-api-key"
	readyTimeout      = 30 * time.Second
)

var (
	stagingURL string
	apiKey     string
	client     = &http.Client{Timeout: 10 * time.Second}
)

func TestMain(m *testing.M) {
	stagingURL = envOr("API_URL", defaultStagingURL)
	apiKey = envOr("API_KEY", defaultAPIKey)

	if err := waitForReady(readyTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "staging server not ready: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// waitForReady polls /readyz so a freshly started server has time to run
// its migrations before the first test.
func waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := client.Get(stagingURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			err = fmt.Errorf("readyz returned %d", resp.StatusCode)
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}
	return lastErr
}

// makeRequest sends a request without a player header
func makeRequest(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	return makePlayerRequest(t, method, path, "", body)
}

// makePlayerRequest sends a request on behalf of playerID and returns the
// response with its body fully read.
func makePlayerRequest(t *testing.T, method, path, playerID string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := stagingURL + path
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", apiKey)
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, respBody
}
