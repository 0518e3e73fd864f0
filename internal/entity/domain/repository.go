package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
)

type MemberRow struct {
	ProfileID snowflake.ID
	FullName  string
	Username  string
	AvatarURL string
	Role      string
	JoinedAt  time.Time
}

type Repository interface {
	FindEntityByHandle(ctx context.Context, handle string) (*identitydomain.Entity, error)
	FindProfileByClerkID(ctx context.Context, clerkUserID string) (*identitydomain.Profile, error)
	FindMemberRole(ctx context.Context, entityID, profileID snowflake.ID) (string, error)

	ListSocialLinks(ctx context.Context, entityID snowflake.ID) ([]identitydomain.EntitySocialLink, error)
	CreateSocialLink(ctx context.Context, link identitydomain.EntitySocialLink) error
	DeleteSocialLink(ctx context.Context, entityID, linkID snowflake.ID) (int64, error)

	ListMembers(ctx context.Context, entityID snowflake.ID) ([]MemberRow, error)

	UpsertConfiguration(ctx context.Context, entry identitydomain.EntityConfiguration) error
	ListConfigurations(ctx context.Context, entityID snowflake.ID) ([]identitydomain.EntityConfiguration, error)
}
