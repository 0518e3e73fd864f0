package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the keyed access surface of the identity mirror. Lookups
// return (nil, nil) when no row exists; deletes are idempotent.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindProfileByClerkID(ctx context.Context, clerkUserID string) (*Profile, error)
	CreateProfile(ctx context.Context, profile Profile) error
	UpdateProfileFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteProfile(ctx context.Context, id snowflake.ID) error

	FindEntityByClerkID(ctx context.Context, clerkOrganizationID string) (*Entity, error)
	CreateEntity(ctx context.Context, entity Entity) error
	UpdateEntityFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteEntity(ctx context.Context, id snowflake.ID) error

	FindMembership(ctx context.Context, entityID, profileID snowflake.ID) (*EntityMembership, error)
	CreateMembership(ctx context.Context, member EntityMembership) error
	UpdateMembershipRole(ctx context.Context, id snowflake.ID, role string) error
	DeleteMembership(ctx context.Context, entityID, profileID snowflake.ID) error

	DeleteConfigurationsByEntity(ctx context.Context, entityID snowflake.ID) error
	DeleteSocialLinksByEntity(ctx context.Context, entityID snowflake.ID) error
	DeleteMembershipsByEntity(ctx context.Context, entityID snowflake.ID) error
}
