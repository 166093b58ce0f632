package packagist

import (
	"context"

	"github.com/samvad-hq/packagist-api/pkg/httpclient"
)

// Adapter performs a GET request and returns the raw response body.
// Non-success responses must be reported as *HTTPError, never as data.
type Adapter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// AdapterFunc lets an ordinary function serve as an Adapter.
type AdapterFunc func(ctx context.Context, url string) ([]byte, error)

// Get calls f(ctx, url).
func (f AdapterFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// HTTPAdapter is the production Adapter backed by an httpclient.Client.
type HTTPAdapter struct {
	client httpclient.Client
}

// NewHTTPAdapter wraps client. A nil client selects a resty client with
// default options.
func NewHTTPAdapter(client httpclient.Client) *HTTPAdapter {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{})
	}
	return &HTTPAdapter{client: client}
}

// Client returns the wrapped HTTP client.
func (a *HTTPAdapter) Client() httpclient.Client { return a.client }

// Get performs the request and translates failures into *HTTPError.
func (a *HTTPAdapter) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := a.client.Get(ctx, url, nil)
	if err != nil {
		return nil, &HTTPError{Message: DefaultErrorMessage, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}
