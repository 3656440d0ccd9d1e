package gcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Auth carries the HTTP client and key material shared by the Google REST
// clients (speech, natural language, text-to-speech).
//
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON service account key file
//   - A JSON string containing the service account credentials
type Auth struct {
	apiKey     string
	HTTPClient *http.Client
}

// NewAuth builds auth from an explicit API key or service-account key data.
// When both are empty, application default credentials are tried.
func NewAuth(ctx context.Context, apiKey, keyData string, timeout time.Duration) (*Auth, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		return &Auth{
			apiKey:     apiKey,
			HTTPClient: &http.Client{Timeout: timeout},
		}, nil
	}

	keyData = strings.TrimSpace(keyData)
	var client *http.Client
	if keyData == "" {
		creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		client = oauth2.NewClient(ctx, creds.TokenSource)
	} else {
		jsonData := []byte(keyData)
		if !strings.HasPrefix(keyData, "{") {
			// It's a file path
			var err error
			jsonData, err = os.ReadFile(keyData)
			if err != nil {
				return nil, fmt.Errorf("failed to read key file %q: %w", keyData, err)
			}
		}
		creds, err := google.CredentialsFromJSON(ctx, jsonData, "https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
		}
		client = oauth2.NewClient(ctx, creds.TokenSource)
	}
	client.Timeout = timeout

	return &Auth{HTTPClient: client}, nil
}

// Endpoint appends the API key query parameter when key auth is in use.
func (a *Auth) Endpoint(base string) string {
	if a.apiKey == "" {
		return base
	}
	return base + "?key=" + a.apiKey
}
