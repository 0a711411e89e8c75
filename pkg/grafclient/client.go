// Package grafclient provides the main entry point for creating Grafana admin
// API clients.
package grafclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/dashops-io/grafadmin/internal/client"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// New creates a new Grafana admin API client from the given config. The
// endpoint is normalized: a trailing slash is trimmed and "https://" is added
// when no scheme is present.
func New(config *grafadmin.Config) (grafadmin.Client, error) {
	if config == nil {
		return nil, grafadmin.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, grafadmin.ErrAPIEndpointRequired
	}

	endpoint, err := normalizeEndpoint(config.APIEndpoint)
	if err != nil {
		return nil, err
	}

	config.APIEndpoint = endpoint

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithPassword creates a client for the given endpoint with basic-auth
// credentials and default retry behavior.
func NewWithPassword(endpoint, username, password string) (grafadmin.Client, error) {
	return New(&grafadmin.Config{
		APIEndpoint: endpoint,
		Username:    username,
		Password:    password,
	})
}

// NewFromEnvironment creates a client configured from GRAFADMIN_* environment
// variables (ENDPOINT, USERNAME, PASSWORD, TIMEOUT, RETRY_MAX,
// BACKOFF_INITIAL, BACKOFF_MAX, BACKOFF_MULTIPLIER) and, if GRAFADMIN_CONFIG
// names a file, from that YAML config file. Environment variables win over
// file values.
func NewFromEnvironment() (grafadmin.Client, error) {
	v := viper.New()
	v.SetEnvPrefix("GRAFADMIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &grafadmin.Config{
		APIEndpoint:       v.GetString("endpoint"),
		Username:          v.GetString("username"),
		Password:          v.GetString("password"),
		Timeout:           v.GetDuration("timeout"),
		RetryMax:          v.GetInt("retry_max"),
		BackoffInitial:    v.GetDuration("backoff_initial"),
		BackoffMax:        v.GetDuration("backoff_max"),
		BackoffMultiplier: v.GetFloat64("backoff_multiplier"),
	}

	return New(config)
}

// normalizeEndpoint trims a trailing slash, defaults the scheme to https, and
// rejects endpoints without a host.
func normalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing API endpoint: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", grafadmin.ErrNoHostInURL, endpoint)
	}

	return endpoint, nil
}
