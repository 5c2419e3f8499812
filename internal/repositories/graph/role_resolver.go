package graph

import "github.com/achievers-club/mentoring-service/internal/models"

// NewRoleCatalog indexes app roles by id. When an id repeats, the last role
// wins.
func NewRoleCatalog(roles []models.AppRole) models.RoleCatalog {
	catalog := make(models.RoleCatalog, len(roles))
	for _, role := range roles {
		catalog[role.ID] = role
	}
	return catalog
}

// ResolveRoleAssignments keeps the assignments whose role is in the catalog,
// in input order, with RoleName set to the role's display name. The input is
// not modified and the result is never nil.
func ResolveRoleAssignments(assignments []models.RoleAssignment, catalog models.RoleCatalog) []models.RoleAssignment {
	resolved := make([]models.RoleAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		role, ok := catalog[assignment.AppRoleID]
		if !ok {
			continue
		}
		assignment.RoleName = role.DisplayName
		resolved = append(resolved, assignment)
	}
	return resolved
}
