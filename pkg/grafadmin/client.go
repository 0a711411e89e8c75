package grafadmin

import (
	"context"
	"time"
)

// Client is the umbrella interface exposing the three capability groups. One
// concrete implementation backs all of them, but each group can be consumed
// (and substituted) independently.
type Client interface {
	Organizations() OrganizationsClient
	Users() UsersClient
	Dashboards() DashboardsClient

	// Health probes the instance's health endpoint. Cheap connectivity check
	// that exercises the same executor path as every other operation.
	Health(ctx context.Context) (*HealthOutcome, error)
}

// OrganizationsClient manages organizations and their memberships.
type OrganizationsClient interface {
	// List returns all organizations.
	List(ctx context.Context) (*OrgListOutcome, error)
	// Create creates an organization. A name conflict yields
	// StatusAlreadyExists.
	Create(ctx context.Context, name string) (*CreatedOutcome, error)
	// Update renames an organization. A name conflict yields
	// StatusAlreadyExists.
	Update(ctx context.Context, orgID int64, name string) (*Outcome, error)
	// Delete removes an organization.
	Delete(ctx context.Context, orgID int64) (*Outcome, error)
	// Switch changes the active organization for the authenticated user. An
	// unknown organization yields StatusNotFound.
	Switch(ctx context.Context, orgID int64) (*Outcome, error)
	// AddUser adds an existing user to an organization with the given role.
	AddUser(ctx context.Context, orgID int64, loginOrEmail, role string) (*Outcome, error)
	// Users returns the organization's membership records.
	Users(ctx context.Context, orgID int64) (*OrgUsersOutcome, error)
}

// UsersClient manages user accounts.
type UsersClient interface {
	// Create creates a user account. A login/email conflict yields
	// StatusAlreadyExists; a rejected payload yields StatusInvalidData.
	Create(ctx context.Context, req *CreateUserRequest) (*CreatedOutcome, error)
	// Update updates a user account. A conflict yields StatusAlreadyExists;
	// an incomplete payload yields StatusMissingMandatoryData.
	Update(ctx context.Context, userID int64, req *UpdateUserRequest) (*Outcome, error)
	// Lookup finds a user by login or email.
	Lookup(ctx context.Context, loginOrEmail string) (*UserOutcome, error)
	// Orgs returns the organizations a user belongs to.
	Orgs(ctx context.Context, userID int64) (*UserOrgsOutcome, error)
}

// DashboardsClient retrieves dashboards and panels. Every retrieval runs
// inside the given organization's security context: the client switches the
// active organization first and short-circuits with the switch outcome when
// the switch fails.
type DashboardsClient interface {
	// Panels returns the panels of one dashboard identified by UID.
	Panels(ctx context.Context, orgID int64, uid string) (*PanelsOutcome, error)
	// OrgPanels returns the concatenated panels of every dashboard in the
	// organization, in dashboard listing order.
	OrgPanels(ctx context.Context, orgID int64) (*PanelsOutcome, error)
	// OrgDashboards returns the organization's dashboards, each decorated
	// with its panels and a per-dashboard PanelsStatus.
	OrgDashboards(ctx context.Context, orgID int64) (*DashboardsOutcome, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config holds the connection parameters for a client. It is read once at
// construction and never mutated afterward; the resulting client is safe for
// concurrent use.
type Config struct {
	// APIEndpoint: base URL for the Grafana instance
	// (e.g., "https://grafana.example.com"). grafclient.New normalizes this
	// value by trimming a trailing slash and adding "https://" if no scheme
	// is present.
	APIEndpoint string

	// Username and Password are sent as HTTP basic auth on every request.
	Username string
	Password string

	// Timeout is the per-attempt socket timeout. Default 200ms.
	Timeout time.Duration

	// RetryMax is the retry budget beyond the first attempt for transient
	// transport failures. Default 10.
	RetryMax int

	// BackoffInitial, BackoffMax, and BackoffMultiplier describe the
	// truncated exponential backoff between retries: the delay before retry
	// n is min(BackoffInitial * BackoffMultiplier^(n-1), BackoffMax).
	// Defaults 500ms, 1s, 2.0.
	BackoffInitial    time.Duration
	BackoffMax        time.Duration
	BackoffMultiplier float64

	// Logger: optional structured logger used by the HTTP layer. Retry
	// events are emitted through it. Defaults to a no-op logger.
	Logger Logger

	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
