package from

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nuts-foundation/charm-calculator/lib/logging"
)

// maxErrorBody is the maximum number of bytes of a non-OK response included in the error.
const maxErrorBody = 1024

// JSONResponse decodes a successful (2xx) JSON response into T. For other status codes,
// the returned error contains the (truncated) response body.
func JSONResponse[T any](httpResponse *http.Response) (T, error) {
	var result T
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		responseData, _ := io.ReadAll(io.LimitReader(httpResponse.Body, maxErrorBody))
		return result, fmt.Errorf("non-OK status code (status=%s, url=%s): %s", httpResponse.Status, redactedURL(httpResponse), strings.TrimSpace(string(responseData)))
	}
	if err := json.NewDecoder(httpResponse.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode response body: %w", err)
	}
	return result, nil
}

func redactedURL(httpResponse *http.Response) string {
	if httpResponse.Request == nil || httpResponse.Request.URL == nil {
		return ""
	}
	return logging.RedactURL(httpResponse.Request.URL.String())
}
