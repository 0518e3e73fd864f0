package domain

// Event kinds recognized by the sync engine. Values match the IdP's
// webhook type discriminator.
const (
	KindUserCreated       = "user.created"
	KindUserUpdated       = "user.updated"
	KindUserDeleted       = "user.deleted"
	KindOrgCreated        = "organization.created"
	KindOrgUpdated        = "organization.updated"
	KindOrgDeleted        = "organization.deleted"
	KindMembershipCreated = "organizationMembership.created"
	KindMembershipUpdated = "organizationMembership.updated"
	KindMembershipDeleted = "organizationMembership.deleted"
)

// Event is one strongly-typed variant per recognized webhook kind.
type Event interface {
	Kind() string
}

// UserUpserted covers user.created and user.updated; both resolve to the
// same idempotent profile upsert. Nil optional fields leave the stored
// value untouched.
type UserUpserted struct {
	EventKind   string
	ClerkUserID string
	FullName    *string
	Username    *string
	AvatarURL   *string
}

func (e UserUpserted) Kind() string { return e.EventKind }

type UserDeleted struct {
	ClerkUserID string
}

func (UserDeleted) Kind() string { return KindUserDeleted }

type OrganizationCreated struct {
	ClerkOrganizationID string
	Name                string
	Slug                *string
	AvatarURL           *string
	CreatedBy           string
}

func (OrganizationCreated) Kind() string { return KindOrgCreated }

type OrganizationUpdated struct {
	ClerkOrganizationID string
	Name                string
	Slug                *string
	AvatarURL           *string
}

func (OrganizationUpdated) Kind() string { return KindOrgUpdated }

type OrganizationDeleted struct {
	ClerkOrganizationID string
}

func (OrganizationDeleted) Kind() string { return KindOrgDeleted }

// MembershipUpserted covers organizationMembership.created and .updated.
type MembershipUpserted struct {
	EventKind           string
	ClerkOrganizationID string
	ClerkUserID         string
	Role                string
}

func (e MembershipUpserted) Kind() string { return e.EventKind }

type MembershipDeleted struct {
	ClerkOrganizationID string
	ClerkUserID         string
}

func (MembershipDeleted) Kind() string { return KindMembershipDeleted }
