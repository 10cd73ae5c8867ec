// Package test contains helpers for tests that start the complete system.
package test

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WaitForHTTPStatus polls the URL until it responds with the given status code, failing the test after 5 seconds.
func WaitForHTTPStatus(t *testing.T, testURL string, statusCode int) {
	t.Helper()
	require.Eventually(t, func() bool {
		httpResponse, err := http.Get(testURL)
		if err != nil {
			return false
		}
		_ = httpResponse.Body.Close()
		return httpResponse.StatusCode == statusCode
	}, 5*time.Second, 50*time.Millisecond, "%s did not respond with status %d", testURL, statusCode)
}

// TempDir creates a temporary directory and changes the working directory to it for the duration of the test.
func TempDir(t *testing.T) string {
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(tmpDir)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return tmpDir
}
