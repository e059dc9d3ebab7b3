package platform

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"BrandMember/internal/domain"
)

const referer = "https://m.jd.com"

// Client issues account-scoped GET requests against the platform. Every
// request carries the session cookie, the fixed referrer, and the configured
// user agent; callers may additionally pin the Host header the platform
// expects for the endpoint.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient wires an HTTP client; a nil client gets the configured timeout.
func NewClient(httpClient *http.Client, userAgent string, timeout time.Duration) *Client {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{http: httpClient, userAgent: userAgent}
}

// Get fetches rawURL with the given query parameters and returns the raw
// body. Transport failure, a non-200 status, or an unreadable body yields a
// *TransportError carrying whatever response text was available.
func (c *Client) Get(ctx context.Context, op, rawURL string, params url.Values, acct domain.Account, host string) ([]byte, error) {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if acct.Cookie != "" {
		req.Header.Set("Cookie", acct.Cookie)
	}
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", c.userAgent)
	if host != "" {
		req.Host = host
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Body: excerpt(body)}
	}

	return body, nil
}
