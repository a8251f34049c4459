package ckan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wardPackageJSON = `{
  "success": true,
  "result": {
    "id": "6678e1a6-d25f-4dff-b2b7-aa8f042bc2eb",
    "name": "ward-profiles-25-ward-model",
    "title": "Ward Profiles (25-Ward Model)",
    "resources": [
      {"id": "r1", "name": "25-ward-model-december-2018-wgs84-latitude-longitude", "url": "https://x/shape.zip", "format": "SHP"},
      {"id": "r2", "name": "2023-WardProfiles-2011-2021-CensusData", "url": "https://x/file.xlsx", "format": "XLSX"}
    ]
  }
}`

func TestPackageShow(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		statusCode  int
		wantErr     error
		wantStatus  int
		wantTitle   string
		wantCount   int
	}{
		{
			name:        "successful fetch",
			body:        wardPackageJSON,
			contentType: "application/json",
			statusCode:  http.StatusOK,
			wantCount:   2,
		},
		{
			name:        "success flag false",
			body:        `{"success": false, "error": {"message": "Not found", "__type": "Not Found Error"}}`,
			contentType: "application/json",
			statusCode:  http.StatusOK,
			wantErr:     ErrUnsuccessful,
		},
		{
			name:        "success flag missing",
			body:        `{"result": {"resources": []}}`,
			contentType: "application/json",
			statusCode:  http.StatusOK,
			wantErr:     ErrUnsuccessful,
		},
		{
			name:        "HTTP 404 with JSON body",
			body:        `{"success": false}`,
			contentType: "application/json",
			statusCode:  http.StatusNotFound,
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "HTTP 503 maintenance page",
			body:        "<html><head><title>  Down for\n maintenance </title></head><body>later</body></html>",
			contentType: "text/html; charset=utf-8",
			statusCode:  http.StatusServiceUnavailable,
			wantStatus:  http.StatusServiceUnavailable,
			wantTitle:   "Down for maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/3/action/package_show", r.URL.Path)
				assert.Equal(t, "ward-profiles-25-ward-model", r.URL.Query().Get("id"))
				assert.Contains(t, r.Header.Get("User-Agent"), "ward-profiles")

				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body)) // nolint:errcheck
			}))
			defer server.Close()

			client := NewClient(server.URL+"/", 0)
			pkg, err := client.PackageShow(context.Background(), "ward-profiles-25-ward-model")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pkg)
			case tt.wantStatus != 0:
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr), "want *StatusError, got %v", err)
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				assert.Equal(t, tt.wantTitle, statusErr.Title)
			default:
				require.NoError(t, err)
				assert.True(t, pkg.Success)
				assert.Len(t, pkg.Result.Resources, tt.wantCount)
			}
		})
	}
}

func TestPackageShow_UnsuccessfulMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"message": "Not found"}}`)) // nolint:errcheck
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).PackageShow(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, strings.HasSuffix(err.Error(), "Not found"), err.Error())
}

func TestPackageShow_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`)) // nolint:errcheck
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).PackageShow(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}

func TestPackageShow_CustomUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`{"success": true}`)) // nolint:errcheck
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	client.SetUserAgent("custom/2.0")
	_, err := client.PackageShow(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "custom/2.0", got)
}

func TestNewClient(t *testing.T) {
	c := NewClient(DefaultBaseURL+"/", 0)

	require.NotNil(t, c.httpClient)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, UserAgent, c.userAgent)
}
