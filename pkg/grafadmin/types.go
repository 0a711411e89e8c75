package grafadmin

// Org is an organization (tenant) within the Grafana instance.
type Org struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrgUser is a user's membership record within one organization.
type OrgUser struct {
	OrgID  int64  `json:"orgId"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Login  string `json:"login"`
	Role   string `json:"role"`
}

// User is a Grafana user account.
type User struct {
	ID             int64  `json:"id"`
	Login          string `json:"login"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Theme          string `json:"theme"`
	IsGrafanaAdmin bool   `json:"isGrafanaAdmin"`
	IsDisabled     bool   `json:"isDisabled"`
}

// UserOrg is one organization a user belongs to, with the user's role there.
type UserOrg struct {
	OrgID int64  `json:"orgId"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Panel is a visualization unit belonging to a dashboard. DashboardURL is the
// URL of the dashboard the panel was read from.
type Panel struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	DashboardURL string `json:"dsUrl"`
}

// Dashboard is a dashboard search hit decorated with its panels. PanelsStatus
// records the outcome of the per-dashboard panel sub-call: StatusOK with an
// empty Panels slice means the dashboard genuinely has no panels, while
// StatusConnectionError or StatusError marks a degraded sub-call.
type Dashboard struct {
	UID          string  `json:"uid"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Panels       []Panel `json:"panels"`
	PanelsStatus Status  `json:"panelsStatus"`
}

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Login    string `json:"login,omitempty"`
	Password string `json:"password"`
}

// UpdateUserRequest is the payload for updating a user account.
type UpdateUserRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Login string `json:"login,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// Outcome is the result of an operation with no payload.
type Outcome struct {
	Status Status `json:"status"`
}

// CreatedOutcome is the result of a creation operation. ID is the identifier
// assigned by the server and is set only when Status is StatusOK.
type CreatedOutcome struct {
	Status Status `json:"status"`
	ID     int64  `json:"id"`
}

// OrgListOutcome is the result of listing organizations.
type OrgListOutcome struct {
	Status Status `json:"status"`
	Orgs   []Org  `json:"orgs"`
}

// OrgUsersOutcome is the result of listing an organization's members.
type OrgUsersOutcome struct {
	Status Status    `json:"status"`
	Users  []OrgUser `json:"users"`
}

// UserOutcome is the result of a user lookup.
type UserOutcome struct {
	Status Status `json:"status"`
	User   *User  `json:"user"`
}

// UserOrgsOutcome is the result of listing a user's organizations.
type UserOrgsOutcome struct {
	Status Status    `json:"status"`
	Orgs   []UserOrg `json:"orgs"`
}

// PanelsOutcome is the result of a panel retrieval.
type PanelsOutcome struct {
	Status Status  `json:"status"`
	Panels []Panel `json:"panels"`
}

// DashboardsOutcome is the result of a dashboard retrieval.
type DashboardsOutcome struct {
	Status     Status      `json:"status"`
	Dashboards []Dashboard `json:"dashboards"`
}

// HealthOutcome is the result of the instance health probe.
type HealthOutcome struct {
	Status   Status `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}
