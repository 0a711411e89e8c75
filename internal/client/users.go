package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

var (
	createUserOverrides = map[int]grafadmin.Status{
		409: grafadmin.StatusAlreadyExists,
		400: grafadmin.StatusInvalidData,
	}
	updateUserOverrides = map[int]grafadmin.Status{
		409: grafadmin.StatusAlreadyExists,
		400: grafadmin.StatusMissingMandatoryData,
		422: grafadmin.StatusMissingMandatoryData,
	}
)

// UsersClient implements grafadmin.UsersClient.
type UsersClient struct {
	httpClient *internalhttp.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *internalhttp.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Create implements grafadmin.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, req *grafadmin.CreateUserRequest) (*grafadmin.CreatedOutcome, error) {
	resp, err := c.httpClient.Post(ctx, "/api/admin/users/", req)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	outcome := &grafadmin.CreatedOutcome{Status: classify(resp, createUserOverrides)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	var body struct {
		ID int64 `json:"id"`
	}

	if err := decode(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	outcome.ID = body.ID

	return outcome, nil
}

// Update implements grafadmin.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, userID int64, req *grafadmin.UpdateUserRequest) (*grafadmin.Outcome, error) {
	path := "/api/users/" + strconv.FormatInt(userID, 10)

	resp, err := c.httpClient.Put(ctx, path, req)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return &grafadmin.Outcome{Status: classify(resp, updateUserOverrides)}, nil
}

// Lookup implements grafadmin.UsersClient.Lookup.
func (c *UsersClient) Lookup(ctx context.Context, loginOrEmail string) (*grafadmin.UserOutcome, error) {
	query := url.Values{"loginOrEmail": []string{loginOrEmail}}

	resp, err := c.httpClient.Get(ctx, "/api/users/lookup", query)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	outcome := &grafadmin.UserOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	var user grafadmin.User

	if err := decode(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}

	outcome.User = &user

	return outcome, nil
}

// Orgs implements grafadmin.UsersClient.Orgs.
func (c *UsersClient) Orgs(ctx context.Context, userID int64) (*grafadmin.UserOrgsOutcome, error) {
	path := "/api/users/" + strconv.FormatInt(userID, 10) + "/orgs"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing user organizations: %w", err)
	}

	outcome := &grafadmin.UserOrgsOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	if err := decode(resp.Body, &outcome.Orgs); err != nil {
		return nil, fmt.Errorf("parsing user organizations: %w", err)
	}

	return outcome, nil
}
