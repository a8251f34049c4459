package ckan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL = "https://ckan0.cf.opendata.inter.prod-toronto.ca"
	UserAgent      = "ward-profiles/1.0 (github.com/pfrederiksen/ward-profiles)"

	packageShowPath = "/api/3/action/package_show"

	// upper bound on how much of an error page is parsed for its title
	maxErrorBody = 1 << 20
)

// ErrUnsuccessful is returned when package_show answers 200 but does not
// report success.
var ErrUnsuccessful = errors.New("package_show response was not successful")

// StatusError reports a non-200 response from the API.
type StatusError struct {
	StatusCode int
	// Title is the <title> of an HTML error page, if the server sent one.
	Title string
}

func (e *StatusError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("API returned status %d (%s)", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// Resource is one downloadable file within a package.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Format       string `json:"format"`
	Description  string `json:"description,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// APIError is the error object CKAN includes when success is false.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"__type"`
}

// PackageResult is the result payload of package_show.
type PackageResult struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Resources []Resource `json:"resources"`
}

// Package is the package_show response envelope.
type Package struct {
	Success bool          `json:"success"`
	Result  PackageResult `json:"result"`
	Error   *APIError     `json:"error,omitempty"`
}

// Client talks to a CKAN instance
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a client for the CKAN instance at baseURL. A zero timeout
// leaves requests bounded only by the context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetUserAgent overrides the User-Agent header sent with every request.
func (c *Client) SetUserAgent(ua string) {
	if ua != "" {
		c.userAgent = ua
	}
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PackageShow fetches the metadata of the package with the given id or name.
func (c *Client) PackageShow(ctx context.Context, id string) (*Package, error) {
	params := url.Values{}
	params.Add("id", id)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, packageShowPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching package metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Title:      errorPageTitle(resp),
		}
	}

	var pkg Package
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if !pkg.Success {
		if pkg.Error != nil && pkg.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsuccessful, pkg.Error.Message)
		}
		return nil, ErrUnsuccessful
	}

	return &pkg, nil
}

// errorPageTitle extracts the <title> of an HTML error body. Proxies and
// maintenance pages in front of the portal answer with HTML, not JSON.
func errorPageTitle(resp *http.Response) string {
	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
