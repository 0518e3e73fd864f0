package domain

import "strings"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// MapRole translates an IdP role string onto the local role set. Unrecognized
// roles fail open to the least privileged role.
func MapRole(idpRole string) string {
	switch strings.ToLower(strings.TrimSpace(idpRole)) {
	case "org:owner", "owner":
		return RoleOwner
	case "org:admin", "admin":
		return RoleAdmin
	case "org:member", "basic_member", "member":
		return RoleMember
	default:
		return RoleMember
	}
}

// CanManageEntity reports whether the role may mutate entity-scoped records.
func CanManageEntity(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
