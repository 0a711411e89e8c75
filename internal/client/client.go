// Package client implements the grafadmin capability interfaces against a
// Grafana instance's administrative HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dashops-io/grafadmin/internal/constants"
	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// Client implements the grafadmin.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	baseURL    string
	logger     grafadmin.Logger

	organizations grafadmin.OrganizationsClient
	users         grafadmin.UsersClient
	dashboards    grafadmin.DashboardsClient
}

var _ grafadmin.Client = (*Client)(nil)

// New creates a new Grafana admin API client from the given config. Zero
// fields fall back to the documented defaults.
func New(config *grafadmin.Config) (*Client, error) {
	if config == nil {
		return nil, grafadmin.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, grafadmin.ErrAPIEndpointRequired
	}

	httpClient := internalhttp.NewClient(config.APIEndpoint, httpOptions(config)...)

	logger := config.Logger
	if logger == nil {
		logger = grafadmin.NewNoopLogger()
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    config.APIEndpoint,
		logger:     logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// httpOptions builds HTTP client options from config.
func httpOptions(config *grafadmin.Config) []internalhttp.Option {
	var opts []internalhttp.Option

	if config.Username != "" {
		opts = append(opts, internalhttp.WithBasicAuth(config.Username, config.Password))
	}

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Timeout > 0 {
		opts = append(opts, internalhttp.WithTimeout(config.Timeout))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 || config.BackoffInitial > 0 {
		retryMax := config.RetryMax
		if retryMax <= 0 {
			retryMax = constants.DefaultRetryMax
		}

		initial := config.BackoffInitial
		if initial <= 0 {
			initial = constants.DefaultBackoffInitial
		}

		maxDelay := config.BackoffMax
		if maxDelay <= 0 {
			maxDelay = constants.DefaultBackoffMax
		}

		multiplier := config.BackoffMultiplier
		if multiplier <= 0 {
			multiplier = constants.DefaultBackoffMultiplier
		}

		opts = append(opts, internalhttp.WithRetryConfig(retryMax, initial, maxDelay, multiplier))
	}

	return opts
}

// initializeResourceClients initializes all capability-group clients.
func (c *Client) initializeResourceClients() {
	c.organizations = NewOrganizationsClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.dashboards = NewDashboardsClient(c.httpClient, c.organizations)
}

// Organizations implements grafadmin.Client.Organizations.
func (c *Client) Organizations() grafadmin.OrganizationsClient {
	return c.organizations
}

// Users implements grafadmin.Client.Users.
func (c *Client) Users() grafadmin.UsersClient {
	return c.users
}

// Dashboards implements grafadmin.Client.Dashboards.
func (c *Client) Dashboards() grafadmin.DashboardsClient {
	return c.dashboards
}

// Health implements grafadmin.Client.Health.
func (c *Client) Health(ctx context.Context) (*grafadmin.HealthOutcome, error) {
	resp, err := c.httpClient.Get(ctx, "/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("getting health: %w", err)
	}

	outcome := &grafadmin.HealthOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	var body struct {
		Version  string `json:"version"`
		Database string `json:"database"`
	}

	if err := decode(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("parsing health response: %w", err)
	}

	outcome.Version = body.Version
	outcome.Database = body.Database

	return outcome, nil
}

// classify resolves the outcome status for a response, applying the
// operation's override table before the default mapping. A response already
// carrying a symbolic status (the connection-error fallback) passes through
// unchanged.
func classify(resp *internalhttp.Response, overrides map[int]grafadmin.Status) grafadmin.Status {
	return grafadmin.ClassifyResponse(resp.Status, resp.StatusCode, overrides)
}

// decode parses a JSON body into v, tolerating an empty or absent body.
func decode(body []byte, v interface{}) error {
	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, v)
}
