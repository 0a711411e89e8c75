package client

import (
	"context"
	"fmt"
	"strconv"

	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// Per-operation status override tables. Overrides take precedence over the
// default classification; unmatched codes fall through.
var (
	createOrgOverrides = map[int]grafadmin.Status{
		409: grafadmin.StatusAlreadyExists,
	}
	updateOrgOverrides = map[int]grafadmin.Status{
		400: grafadmin.StatusAlreadyExists,
	}
	switchOrgOverrides = map[int]grafadmin.Status{
		401: grafadmin.StatusNotFound,
	}
	addOrgUserOverrides = map[int]grafadmin.Status{
		400: grafadmin.StatusOrgNotFound,
		404: grafadmin.StatusUserNotFound,
		409: grafadmin.StatusAlreadyExists,
	}
)

// OrganizationsClient implements grafadmin.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *internalhttp.Client
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *internalhttp.Client) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
	}
}

// List implements grafadmin.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context) (*grafadmin.OrgListOutcome, error) {
	resp, err := c.httpClient.Get(ctx, "/api/orgs", nil)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	outcome := &grafadmin.OrgListOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	if err := decode(resp.Body, &outcome.Orgs); err != nil {
		return nil, fmt.Errorf("parsing organizations: %w", err)
	}

	return outcome, nil
}

// Create implements grafadmin.OrganizationsClient.Create.
func (c *OrganizationsClient) Create(ctx context.Context, name string) (*grafadmin.CreatedOutcome, error) {
	resp, err := c.httpClient.Post(ctx, "/api/orgs", map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	outcome := &grafadmin.CreatedOutcome{Status: classify(resp, createOrgOverrides)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	var body struct {
		OrgID int64 `json:"orgId"`
	}

	if err := decode(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	outcome.ID = body.OrgID

	return outcome, nil
}

// Update implements grafadmin.OrganizationsClient.Update.
func (c *OrganizationsClient) Update(ctx context.Context, orgID int64, name string) (*grafadmin.Outcome, error) {
	path := "/api/orgs/" + strconv.FormatInt(orgID, 10)

	resp, err := c.httpClient.Put(ctx, path, map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}

	return &grafadmin.Outcome{Status: classify(resp, updateOrgOverrides)}, nil
}

// Delete implements grafadmin.OrganizationsClient.Delete.
func (c *OrganizationsClient) Delete(ctx context.Context, orgID int64) (*grafadmin.Outcome, error) {
	path := "/api/orgs/" + strconv.FormatInt(orgID, 10)

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting organization: %w", err)
	}

	return &grafadmin.Outcome{Status: classify(resp, nil)}, nil
}

// Switch implements grafadmin.OrganizationsClient.Switch. Grafana answers 401
// for an organization the user cannot switch into, which this operation
// reports as StatusNotFound.
func (c *OrganizationsClient) Switch(ctx context.Context, orgID int64) (*grafadmin.Outcome, error) {
	path := "/api/user/using/" + strconv.FormatInt(orgID, 10)

	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("switching organization: %w", err)
	}

	return &grafadmin.Outcome{Status: classify(resp, switchOrgOverrides)}, nil
}

// AddUser implements grafadmin.OrganizationsClient.AddUser.
func (c *OrganizationsClient) AddUser(ctx context.Context, orgID int64, loginOrEmail, role string) (*grafadmin.Outcome, error) {
	path := "/api/orgs/" + strconv.FormatInt(orgID, 10) + "/users"

	resp, err := c.httpClient.Post(ctx, path, map[string]string{
		"loginOrEmail": loginOrEmail,
		"role":         role,
	})
	if err != nil {
		return nil, fmt.Errorf("adding organization user: %w", err)
	}

	return &grafadmin.Outcome{Status: classify(resp, addOrgUserOverrides)}, nil
}

// Users implements grafadmin.OrganizationsClient.Users.
func (c *OrganizationsClient) Users(ctx context.Context, orgID int64) (*grafadmin.OrgUsersOutcome, error) {
	path := "/api/orgs/" + strconv.FormatInt(orgID, 10) + "/users"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing organization users: %w", err)
	}

	outcome := &grafadmin.OrgUsersOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	if err := decode(resp.Body, &outcome.Users); err != nil {
		return nil, fmt.Errorf("parsing organization users: %w", err)
	}

	return outcome, nil
}
