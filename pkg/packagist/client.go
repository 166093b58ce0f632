package packagist

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// DefaultEndpoint is the public Packagist instance.
const DefaultEndpoint = "https://packagist.org"

// jsonAPI decodes numbers as json.Number so integer counters survive intact.
var jsonAPI = jsoniter.Config{UseNumber: true}.Froze()

// Client talks to a Packagist endpoint through an Adapter. It holds no
// mutable state and is safe for concurrent use if its Adapter is.
type Client struct {
	endpoint string
	adapter  Adapter
	log      Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the base URL. An empty endpoint keeps the default.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient returns a Client using adapter. A nil adapter selects an
// HTTPAdapter with a default resty client.
func NewClient(adapter Adapter, opts ...Option) *Client {
	if adapter == nil {
		adapter = NewHTTPAdapter(nil)
	}
	c := &Client{
		endpoint: DefaultEndpoint,
		adapter:  adapter,
		log:      discardLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the base URL every request is built on.
func (c *Client) Endpoint() string { return c.endpoint }

// Adapter returns the transport the client delegates to.
func (c *Client) Adapter() Adapter { return c.adapter }

// GetAllPackageNames lists package names, optionally filtered by the
// "vendor" and "type" parameters.
func (c *Client) GetAllPackageNames(ctx context.Context, params Params) (any, error) {
	return c.request(ctx, fmt.Sprintf("%s/packages/list.json", c.endpoint), params)
}

// GetPackageByName fetches the metadata of a single package, e.g.
// "monolog/monolog". The name is inserted into the path as is.
func (c *Client) GetPackageByName(ctx context.Context, name string) (any, error) {
	return c.request(ctx, fmt.Sprintf("%s/packages/%s.json", c.endpoint, name), nil)
}

// SearchPackages searches the registry. Recognized parameters are "q",
// "tags", "type", "per_page" and "page".
func (c *Client) SearchPackages(ctx context.Context, params Params) (any, error) {
	return c.request(ctx, fmt.Sprintf("%s/search.json", c.endpoint), params)
}

// GetPopularPackages lists the most popular packages. Recognized parameters
// are "per_page" and "page".
func (c *Client) GetPopularPackages(ctx context.Context, params Params) (any, error) {
	return c.request(ctx, fmt.Sprintf("%s/explore/popular.json", c.endpoint), params)
}

func (c *Client) request(ctx context.Context, url string, params Params) (any, error) {
	if len(params) > 0 {
		url += "?" + params.Encode()
	}

	c.log.DebugObj("packagist request", "url", url)
	body, err := c.adapter.Get(ctx, url)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			c.log.WarnObj("packagist request failed", "http_error", map[string]any{
				"url":     url,
				"code":    httpErr.Code,
				"message": httpErr.Message,
			})
		}
		return nil, err
	}
	return Decode(body)
}

var errEmptyBody = errors.New("empty response body")

// Decode parses a registry response body into the generic tree returned by
// the Client operations.
func Decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("decode response: %w", errEmptyBody)
	}
	var v any
	if err := jsonAPI.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}
