package models

import "slices"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleMentor  UserRole = "mentor"
	RoleStudent UserRole = "student"
)

// RoleIDs holds the directory app role identifiers of the three roles the
// application cares about. They are fixed per deployment.
type RoleIDs struct {
	Admin   string
	Mentor  string
	Student string
}

// DefaultRoleIDs are the app roles registered for the production application.
var DefaultRoleIDs = RoleIDs{
	Admin:   "e567add0-fec3-4c87-941a-05dd2e18cdfd",
	Mentor:  "a2ed7b54-4379-465d-873d-2e182e0bd8ef",
	Student: "ee1650fe-387b-40c3-bb73-e8d54fbe09a6",
}

// RoleSet is the membership of an identity in the role taxonomy. Any
// combination is possible.
type RoleSet struct {
	Admin   bool `json:"admin"`
	Mentor  bool `json:"mentor"`
	Student bool `json:"student"`
}

func (r RoleSet) Roles() []UserRole {
	roles := make([]UserRole, 0, 3)
	if r.Admin {
		roles = append(roles, RoleAdmin)
	}
	if r.Mentor {
		roles = append(roles, RoleMentor)
	}
	if r.Student {
		roles = append(roles, RoleStudent)
	}
	return roles
}

// Classify matches role identifiers against the taxonomy by equality.
// Identifiers outside the taxonomy are ignored.
func (ids RoleIDs) Classify(roleIDs []string) RoleSet {
	return RoleSet{
		Admin:   ids.Admin != "" && slices.Contains(roleIDs, ids.Admin),
		Mentor:  ids.Mentor != "" && slices.Contains(roleIDs, ids.Mentor),
		Student: ids.Student != "" && slices.Contains(roleIDs, ids.Student),
	}
}

// ID returns the directory identifier of a taxonomy role.
func (ids RoleIDs) ID(role UserRole) (string, bool) {
	switch role {
	case RoleAdmin:
		return ids.Admin, ids.Admin != ""
	case RoleMentor:
		return ids.Mentor, ids.Mentor != ""
	case RoleStudent:
		return ids.Student, ids.Student != ""
	default:
		return "", false
	}
}

// Landing is where a signed-in identity is sent when entering the application.
type Landing string

const (
	LandingForbidden  Landing = "forbidden"
	LandingAdmin      Landing = "admin"
	LandingMentor     Landing = "mentor"
	LandingOnboarding Landing = "onboarding"
)

// Path returns the route a landing redirects to.
func (l Landing) Path() string {
	switch l {
	case LandingAdmin:
		return "/admin/home"
	case LandingMentor:
		return "/mentor/roster"
	case LandingOnboarding:
		return "/mentor/volunteer-agreement"
	default:
		return "/401"
	}
}

// DecideLanding applies the entry precedence. Student is checked first and is
// terminal, so an identity holding both Student and Admin is refused.
func DecideLanding(roles RoleSet, agreementSigned bool) Landing {
	if roles.Student {
		return LandingForbidden
	}
	if roles.Admin {
		return LandingAdmin
	}
	if !agreementSigned {
		return LandingOnboarding
	}
	if roles.Mentor {
		return LandingMentor
	}
	return LandingForbidden
}
