// Package domain contains persistence models for the identity mirror.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Profile is the local mirror of one IdP user.
type Profile struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClerkUserID string       `gorm:"type:text;not null;uniqueIndex:ux_profiles_clerk_user_id" json:"clerk_user_id"`
	FullName    string       `gorm:"type:text" json:"full_name"`
	Username    string       `gorm:"type:text" json:"username"`
	AvatarURL   string       `gorm:"type:text;column:avatar_url" json:"avatar_url"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// Entity is the local mirror of one IdP organization.
type Entity struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	ClerkOrganizationID string       `gorm:"type:text;not null;uniqueIndex:ux_entities_clerk_org_id;column:clerk_organization_id" json:"clerk_organization_id"`
	Name                string       `gorm:"type:text;not null" json:"name"`
	Handle              string       `gorm:"type:text;not null;index" json:"handle"`
	Brief               string       `gorm:"type:text" json:"brief"`
	AvatarURL           string       `gorm:"type:text;column:avatar_url" json:"avatar_url"`
	CreatedBy           snowflake.ID `gorm:"not null;index" json:"created_by"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entity) TableName() string { return "entities" }

// EntityMembership joins a Profile to an Entity with a role.
type EntityMembership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	EntityID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_entity_members_entity_profile,priority:1" json:"entity_id"`
	ProfileID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_entity_members_entity_profile,priority:2" json:"profile_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	JoinedAt  time.Time    `gorm:"not null" json:"joined_at"`
}

// TableName sets the database table name.
func (EntityMembership) TableName() string { return "entity_members" }

// EntitySocialLink is an entity-scoped external link.
type EntitySocialLink struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	EntityID  snowflake.ID `gorm:"not null;index" json:"entity_id"`
	Platform  string       `gorm:"type:text;not null" json:"platform"`
	URL       string       `gorm:"type:text;not null;column:url" json:"url"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (EntitySocialLink) TableName() string { return "entity_social_links" }

// EntityConfiguration is an entity-scoped configuration entry.
type EntityConfiguration struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	EntityID  snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_entity_configurations_entity_key,priority:1" json:"entity_id"`
	Key       string            `gorm:"type:text;not null;uniqueIndex:ux_entity_configurations_entity_key,priority:2" json:"key"`
	Value     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"value"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (EntityConfiguration) TableName() string { return "entity_configurations" }
