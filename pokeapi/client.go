package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// pageSize is the listing page size. PokeAPI caps pages well above the
// largest supported category, so most listings fit in one request.
const pageSize = 500

// Options configures the HTTP client.
type Options struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// Timeout is the per-request timeout (0 = no timeout).
	Timeout time.Duration
	// Proxy is an optional HTTP/HTTPS proxy URL. When empty the standard
	// HTTP_PROXY/HTTPS_PROXY environment variables apply.
	Proxy string
}

// Client fetches resources over HTTP. All calls go through a circuit
// breaker so that a dead endpoint fails fast instead of timing out once
// per resource in a long category build.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a PokeAPI client.
func NewClient(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		httpc:   makeHTTPClient(opts.Proxy, opts.Timeout),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "pokeapi",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// get performs one GET through the circuit breaker and returns the body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

// listPage is one page of a category listing.
type listPage struct {
	Count   int        `json:"count"`
	Next    string     `json:"next"`
	Results []NamedRef `json:"results"`
}

// List enumerates every resource in a category, following pagination.
// The listing is the ground truth for the category's full id range.
func (c *Client) List(ctx context.Context, category string) ([]Ref, error) {
	pageURL := fmt.Sprintf("%s/%s?limit=%d&offset=0", c.baseURL, category, pageSize)

	var refs []Ref
	for pageURL != "" {
		body, err := c.get(ctx, pageURL)
		if err != nil {
			return nil, &FetchError{Category: category, Err: err}
		}

		var page listPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &FetchError{Category: category, Err: fmt.Errorf("decoding listing: %w", err)}
		}

		for _, r := range page.Results {
			refs = append(refs, Ref{ID: idFromURL(r.URL), Name: r.Name})
		}
		pageURL = page.Next
	}
	return refs, nil
}

// FetchRaw fetches one record by (category, id) and returns the raw payload.
func (c *Client) FetchRaw(ctx context.Context, category string, id int) ([]byte, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s/%d", c.baseURL, category, id))
	if err != nil {
		return nil, &FetchError{Category: category, ID: id, Err: err}
	}
	return body, nil
}

// Resource fetches and decodes one record by (category, id).
func (c *Client) Resource(ctx context.Context, category string, id int) (*Resource, error) {
	body, err := c.FetchRaw(ctx, category, id)
	if err != nil {
		return nil, err
	}
	return decodeResource(category, id, body)
}

func decodeResource(category string, id int, payload []byte) (*Resource, error) {
	var r Resource
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, &FetchError{Category: category, ID: id, Err: fmt.Errorf("decoding record: %w", err)}
	}
	return &r, nil
}
