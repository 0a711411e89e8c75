package client

import (
	"context"
	"fmt"
	"net/url"

	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// DashboardsClient implements grafadmin.DashboardsClient. Every retrieval
// switches the active organization first, so results always come from the
// requested organization's security context.
type DashboardsClient struct {
	httpClient *internalhttp.Client
	orgs       grafadmin.OrganizationsClient
}

// NewDashboardsClient creates a new dashboards client. The organizations
// client performs the context switches.
func NewDashboardsClient(httpClient *internalhttp.Client, orgs grafadmin.OrganizationsClient) *DashboardsClient {
	return &DashboardsClient{
		httpClient: httpClient,
		orgs:       orgs,
	}
}

// inOrgContext runs fn inside orgID's security context. When the switch
// outcome is not StatusOK, fn is never invoked and the switch status is
// returned through degraded.
func inOrgContext[T any](
	ctx context.Context,
	orgs grafadmin.OrganizationsClient,
	orgID int64,
	degraded func(grafadmin.Status) *T,
	fn func(context.Context) (*T, error),
) (*T, error) {
	switched, err := orgs.Switch(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("switching organization context: %w", err)
	}

	if switched.Status != grafadmin.StatusOK {
		return degraded(switched.Status), nil
	}

	return fn(ctx)
}

// Panels implements grafadmin.DashboardsClient.Panels.
func (c *DashboardsClient) Panels(ctx context.Context, orgID int64, uid string) (*grafadmin.PanelsOutcome, error) {
	return inOrgContext(ctx, c.orgs, orgID,
		func(status grafadmin.Status) *grafadmin.PanelsOutcome {
			return &grafadmin.PanelsOutcome{Status: status}
		},
		func(ctx context.Context) (*grafadmin.PanelsOutcome, error) {
			return c.dashboardPanels(ctx, uid)
		},
	)
}

// OrgPanels implements grafadmin.DashboardsClient.OrgPanels. The fan-out is
// sequential and preserves listing order; a degraded sub-call contributes
// nothing to the flat list and never aborts the remaining sub-calls.
func (c *DashboardsClient) OrgPanels(ctx context.Context, orgID int64) (*grafadmin.PanelsOutcome, error) {
	return inOrgContext(ctx, c.orgs, orgID,
		func(status grafadmin.Status) *grafadmin.PanelsOutcome {
			return &grafadmin.PanelsOutcome{Status: status}
		},
		func(ctx context.Context) (*grafadmin.PanelsOutcome, error) {
			hits, status, err := c.searchDashboards(ctx)
			if err != nil {
				return nil, err
			}

			if status != grafadmin.StatusOK {
				return &grafadmin.PanelsOutcome{Status: status}, nil
			}

			outcome := &grafadmin.PanelsOutcome{
				Status: grafadmin.StatusOK,
				Panels: []grafadmin.Panel{},
			}

			for _, hit := range hits {
				panels, err := c.dashboardPanels(ctx, hit.UID)
				if err != nil {
					return nil, err
				}

				if panels.Status != grafadmin.StatusOK {
					continue
				}

				outcome.Panels = append(outcome.Panels, panels.Panels...)
			}

			return outcome, nil
		},
	)
}

// OrgDashboards implements grafadmin.DashboardsClient.OrgDashboards. Each
// dashboard record carries its own PanelsStatus, so a sub-call degraded to
// connection-error stays distinguishable from a dashboard with zero panels.
func (c *DashboardsClient) OrgDashboards(ctx context.Context, orgID int64) (*grafadmin.DashboardsOutcome, error) {
	return inOrgContext(ctx, c.orgs, orgID,
		func(status grafadmin.Status) *grafadmin.DashboardsOutcome {
			return &grafadmin.DashboardsOutcome{Status: status}
		},
		func(ctx context.Context) (*grafadmin.DashboardsOutcome, error) {
			hits, status, err := c.searchDashboards(ctx)
			if err != nil {
				return nil, err
			}

			if status != grafadmin.StatusOK {
				return &grafadmin.DashboardsOutcome{Status: status}, nil
			}

			outcome := &grafadmin.DashboardsOutcome{
				Status:     grafadmin.StatusOK,
				Dashboards: []grafadmin.Dashboard{},
			}

			for _, hit := range hits {
				panels, err := c.dashboardPanels(ctx, hit.UID)
				if err != nil {
					return nil, err
				}

				outcome.Dashboards = append(outcome.Dashboards, grafadmin.Dashboard{
					UID:          hit.UID,
					Title:        hit.Title,
					URL:          hit.URL,
					Panels:       panels.Panels,
					PanelsStatus: panels.Status,
				})
			}

			return outcome, nil
		},
	)
}

// searchHit is one dashboard row from the search endpoint.
type searchHit struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// searchDashboards lists the dashboards visible in the active organization.
func (c *DashboardsClient) searchDashboards(ctx context.Context) ([]searchHit, grafadmin.Status, error) {
	query := url.Values{"type": []string{"dash-db"}}

	resp, err := c.httpClient.Get(ctx, "/api/search", query)
	if err != nil {
		return nil, "", fmt.Errorf("searching dashboards: %w", err)
	}

	status := classify(resp, nil)
	if status != grafadmin.StatusOK {
		return nil, status, nil
	}

	var hits []searchHit
	if err := decode(resp.Body, &hits); err != nil {
		return nil, "", fmt.Errorf("parsing dashboard search: %w", err)
	}

	return hits, status, nil
}

// dashboardPanels fetches one dashboard by UID and extracts its panels. Each
// panel is decorated with the dashboard's URL from the response metadata.
func (c *DashboardsClient) dashboardPanels(ctx context.Context, uid string) (*grafadmin.PanelsOutcome, error) {
	resp, err := c.httpClient.Get(ctx, "/api/dashboards/uid/"+uid, nil)
	if err != nil {
		return nil, fmt.Errorf("getting dashboard: %w", err)
	}

	outcome := &grafadmin.PanelsOutcome{Status: classify(resp, nil)}
	if outcome.Status != grafadmin.StatusOK {
		return outcome, nil
	}

	var body struct {
		Dashboard struct {
			Panels []struct {
				ID    int64  `json:"id"`
				Title string `json:"title"`
			} `json:"panels"`
		} `json:"dashboard"`
		Meta struct {
			URL string `json:"url"`
		} `json:"meta"`
	}

	if err := decode(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("parsing dashboard: %w", err)
	}

	outcome.Panels = make([]grafadmin.Panel, 0, len(body.Dashboard.Panels))
	for _, panel := range body.Dashboard.Panels {
		outcome.Panels = append(outcome.Panels, grafadmin.Panel{
			ID:           panel.ID,
			Title:        panel.Title,
			DashboardURL: body.Meta.URL,
		})
	}

	return outcome, nil
}
