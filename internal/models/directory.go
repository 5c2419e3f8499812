package models

// Directory types mirror the Graph v1 payloads. They are never persisted.

// AppRole is an application role registered in the directory.
type AppRole struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Description *string `json:"description"`
}

// RoleCatalog maps app role identifiers to their definition. It lives for a
// single request.
type RoleCatalog map[string]AppRole

// RoleAssignment binds an identity to an app role. RoleName is filled in when
// the assignment is resolved against a RoleCatalog.
type RoleAssignment struct {
	ID                   string `json:"id"`
	AppRoleID            string `json:"appRoleId"`
	PrincipalDisplayName string `json:"principalDisplayName"`
	PrincipalID          string `json:"principalId"`
	ResourceDisplayName  string `json:"resourceDisplayName"`
	RoleName             string `json:"roleName,omitempty"`
}

// ExternalIdentity is a user held by the directory.
type ExternalIdentity struct {
	ID                 string           `json:"id"`
	DisplayName        string           `json:"displayName"`
	GivenName          *string          `json:"givenName"`
	Surname            *string          `json:"surname"`
	Mail               *string          `json:"mail"`
	UserPrincipalName  string           `json:"userPrincipalName"`
	AppRoleAssignments []RoleAssignment `json:"appRoleAssignments"`
}

// RoleIDs lists the app role identifiers of the identity's assignments.
func (e *ExternalIdentity) RoleIDs() []string {
	ids := make([]string, 0, len(e.AppRoleAssignments))
	for _, a := range e.AppRoleAssignments {
		ids = append(ids, a.AppRoleID)
	}
	return ids
}

// RoleNames lists the resolved role names in assignment order.
func (e *ExternalIdentity) RoleNames() []string {
	names := make([]string, 0, len(e.AppRoleAssignments))
	for _, a := range e.AppRoleAssignments {
		names = append(names, a.RoleName)
	}
	return names
}

// Invitation is the directory's answer to an invite request.
type Invitation struct {
	ID                      string `json:"id"`
	InviteRedeemURL         string `json:"inviteRedeemUrl"`
	InviteRedirectURL       string `json:"inviteRedirectUrl"`
	InvitedUserEmailAddress string `json:"invitedUserEmailAddress"`
	Status                  string `json:"status"`
	InvitedUser             struct {
		ID string `json:"id"`
	} `json:"invitedUser"`
}

func (i *Invitation) InvitedUserID() string {
	return i.InvitedUser.ID
}

// AssignmentResult is the created app role assignment.
type AssignmentResult struct {
	ID                   string `json:"id"`
	AppRoleID            string `json:"appRoleId"`
	CreatedDateTime      string `json:"createdDateTime"`
	PrincipalDisplayName string `json:"principalDisplayName"`
	PrincipalID          string `json:"principalId"`
	PrincipalType        string `json:"principalType"`
	ResourceDisplayName  string `json:"resourceDisplayName"`
	ResourceID           string `json:"resourceId"`
}
