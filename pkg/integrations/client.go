package integrations

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/gvc/pkg/httputil"
	"github.com/matzehuels/gvc/pkg/observability"
)

// maxBody caps how much of a response is read. Metadata documents for even
// the largest artifacts stay well below this.
const maxBody = 8 << 20

// Client provides shared HTTP functionality for repository metadata clients.
// It handles retry logic and common request headers.
type Client struct {
	http    *http.Client
	retry   httputil.Policy
	headers map[string]string
}

// NewClient creates a Client with the given HTTP client, retry policy and
// default headers. A nil httpClient uses [NewHTTPClient] with
// [DefaultTimeout]. Headers are applied to all requests made through this
// client; pass nil if none are needed.
func NewClient(httpClient *http.Client, retry httputil.Policy, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	return &Client{
		http:    httpClient,
		retry:   retry,
		headers: headers,
	}
}

// GetBytes performs an HTTP GET request under the client's retry policy and
// returns the response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := c.retry.Do(ctx, func() error {
		body, err := c.doRequest(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()
		data, err = io.ReadAll(io.LimitReader(body, maxBody))
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("%w: read %s: %v", ErrNetwork, url, err)}
		}
		return nil
	})
	return data, err
}

// GetXML performs an HTTP GET request and XML-decodes the response into v.
func (c *Client) GetXML(ctx context.Context, url string, v any) error {
	data, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound, code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
