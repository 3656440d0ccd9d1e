package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// apiError is the error envelope shared by the Google REST APIs.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// PostJSON sends a JSON request and decodes the JSON response into target.
// Server-side (5xx) failures are retried with exponential backoff; client
// errors are surfaced immediately with the API's message when present.
func (a *Auth) PostJSON(ctx context.Context, url string, reqBody, target any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = err
			return err
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, body)
			return lastErr
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("api error %s: %s", apiErr.Error.Status, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("api returned status %d: %s", resp.StatusCode, body)
			}
			return backoff.Permanent(lastErr)
		}

		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %w body=%s", err, body)
			return backoff.Permanent(lastErr)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return lastErr
	}
	return nil
}
