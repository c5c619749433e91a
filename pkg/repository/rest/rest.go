package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds one HTTP round trip when no client is injected
const DefaultTimeout = 30 * time.Second

// Client is the Backend talking to the grocery platform's REST API. The base
// URL is injected at construction; every schema's Path is appended to it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	userAgent  string
}

var _ interfaces.Backend = &Client{}

type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("REST base URL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, goerr.New("REST base URL must be http(s)", goerr.V("base_url", baseURL))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "grocery-admin",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Records(schema *config.FormSchema) interfaces.RecordAccess {
	return &resource{client: c, schema: schema}
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
