package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// GraphConfig identifies the application whose roles are managed
type GraphConfig struct {
	BaseURL string
	// ApplicationObjectID is the object id of the app registration that
	// declares the app roles
	ApplicationObjectID string
	// ServicePrincipalID is the enterprise application role assignments are
	// made against
	ServicePrincipalID string
	Timeout            time.Duration
}

type DirectoryGraph struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	config     GraphConfig
	logger     *slog.Logger
}

// NewDirectoryGraph builds a Graph v1 client. Every request is authorized
// with a token from tokens.
func NewDirectoryGraph(config GraphConfig, tokens oauth2.TokenSource, httpClient *http.Client, logger *slog.Logger) *DirectoryGraph {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryGraph{
		httpClient: httpClient,
		tokens:     tokens,
		config:     config,
		logger:     logger,
	}
}

var _ repositories.DirectoryRepository = (*DirectoryGraph)(nil)

// ===== WIRE TYPES =====

type applicationResponse struct {
	AppRoles []models.AppRole `json:"appRoles"`
}

type usersPage struct {
	Value    []*models.ExternalIdentity `json:"value"`
	NextLink string                     `json:"@odata.nextLink"`
}

type invitationRequest struct {
	InvitedUserEmailAddress string `json:"invitedUserEmailAddress"`
	InviteRedirectURL       string `json:"inviteRedirectUrl"`
	SendInvitationMessage   bool   `json:"sendInvitationMessage"`
}

type assignmentRequest struct {
	PrincipalID string `json:"principalId"`
	ResourceID  string `json:"resourceId"`
	AppRoleID   string `json:"appRoleId"`
}

// ===== OPERATIONS =====

func (g *DirectoryGraph) ListRoles(ctx context.Context) ([]models.AppRole, error) {
	var app applicationResponse
	path := "/applications/" + url.PathEscape(g.config.ApplicationObjectID)
	query := url.Values{"$select": {"appRoles"}}

	if err := g.do(ctx, "list roles", http.MethodGet, g.endpoint(path, query), nil, &app); err != nil {
		return nil, err
	}
	if app.AppRoles == nil {
		return []models.AppRole{}, nil
	}
	return app.AppRoles, nil
}

// GetUserWithRoles fetches the identity and the role catalog concurrently
// and resolves the identity's assignments against the catalog
func (g *DirectoryGraph) GetUserWithRoles(ctx context.Context, id string) (*models.ExternalIdentity, error) {
	var (
		identity models.ExternalIdentity
		roles    []models.AppRole
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		path := "/users/" + url.PathEscape(id)
		query := url.Values{"$expand": {"appRoleAssignments"}}
		return g.do(egCtx, "get user", http.MethodGet, g.endpoint(path, query), nil, &identity)
	})
	eg.Go(func() error {
		var err error
		roles, err = g.ListRoles(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.resolve(&identity, NewRoleCatalog(roles))
	return &identity, nil
}

// ListUsersWithRoles walks every page of users and resolves their
// assignments against one catalog
func (g *DirectoryGraph) ListUsersWithRoles(ctx context.Context) ([]*models.ExternalIdentity, error) {
	var (
		users []*models.ExternalIdentity
		roles []models.AppRole
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		next := g.endpoint("/users", url.Values{"$expand": {"appRoleAssignments"}})
		for next != "" {
			var page usersPage
			if err := g.do(egCtx, "list users", http.MethodGet, next, nil, &page); err != nil {
				return err
			}
			users = append(users, page.Value...)

			if page.NextLink != "" && !strings.HasPrefix(page.NextLink, g.config.BaseURL+"/") {
				return &DirectoryError{Op: "list users", Err: fmt.Errorf("unexpected next link host")}
			}
			next = page.NextLink
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		roles, err = g.ListRoles(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	catalog := NewRoleCatalog(roles)
	result := make([]*models.ExternalIdentity, 0, len(users))
	for _, user := range users {
		if user == nil {
			continue
		}
		g.resolve(user, catalog)
		result = append(result, user)
	}
	return result, nil
}

func (g *DirectoryGraph) InviteUser(ctx context.Context, email, redirectURL string) (*models.Invitation, error) {
	body := invitationRequest{
		InvitedUserEmailAddress: email,
		InviteRedirectURL:       redirectURL,
		SendInvitationMessage:   true,
	}

	var invitation models.Invitation
	if err := g.do(ctx, "invite user", http.MethodPost, g.endpoint("/invitations", nil), body, &invitation); err != nil {
		return nil, err
	}
	if invitation.InvitedUserID() == "" {
		return nil, &DirectoryError{Op: "invite user", Err: errors.New("invitation carries no user id")}
	}
	return &invitation, nil
}

func (g *DirectoryGraph) AssignRole(ctx context.Context, identityID, roleID string) (*models.AssignmentResult, error) {
	body := assignmentRequest{
		PrincipalID: identityID,
		ResourceID:  g.config.ServicePrincipalID,
		AppRoleID:   roleID,
	}

	var result models.AssignmentResult
	if err := g.do(ctx, "assign role", http.MethodPost, g.endpoint(g.assignmentsPath(), nil), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *DirectoryGraph) RemoveRole(ctx context.Context, assignmentID string) error {
	path := g.assignmentsPath() + "/" + url.PathEscape(assignmentID)
	return g.do(ctx, "remove role", http.MethodDelete, g.endpoint(path, nil), nil, nil)
}

// ===== HELPERS =====

func (g *DirectoryGraph) assignmentsPath() string {
	return "/servicePrincipals/" + url.PathEscape(g.config.ServicePrincipalID) + "/appRoleAssignedTo"
}

func (g *DirectoryGraph) endpoint(path string, query url.Values) string {
	u := g.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (g *DirectoryGraph) resolve(identity *models.ExternalIdentity, catalog models.RoleCatalog) {
	resolved := ResolveRoleAssignments(identity.AppRoleAssignments, catalog)
	if dropped := len(identity.AppRoleAssignments) - len(resolved); dropped > 0 {
		g.logger.Debug("Dropped role assignments outside the catalog",
			"identity_id", identity.ID,
			"dropped", dropped)
	}
	identity.AppRoleAssignments = resolved
}

// do performs one authorized request. Any failure, including a missing
// token or an undecodable body, is returned as a *DirectoryError.
func (g *DirectoryGraph) do(ctx context.Context, op, method, endpoint string, body, out any) error {
	if g.tokens == nil {
		return &DirectoryError{Op: op, Err: errors.New("no token source configured")}
	}
	token, err := g.tokens.Token()
	if err != nil {
		return &DirectoryError{Op: op, Err: fmt.Errorf("acquire token: %w", err)}
	}
	if token == nil || token.AccessToken == "" {
		return &DirectoryError{Op: op, Err: errors.New("empty access token")}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &DirectoryError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &DirectoryError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", token.Type()+" "+token.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &DirectoryError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DirectoryError{Op: op, StatusCode: resp.StatusCode, Err: readGraphError(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DirectoryError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func readGraphError(body io.Reader) error {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))

	var envelope graphErrorBody
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != "" {
		return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
	}
	return errors.New("unexpected response")
}
