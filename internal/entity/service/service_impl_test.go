package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagehq/vantage/internal/entity/domain"
	"github.com/vantagehq/vantage/internal/entity/repository"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    domain.Service
	db     *gorm.DB
	node   *snowflake.Node
	entity identitydomain.Entity
	owner  identitydomain.Profile
	member identitydomain.Profile
}

// newFixture seeds one entity with an owner and a plain member.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identitydomain.Profile{},
		&identitydomain.Entity{},
		&identitydomain.EntityMembership{},
		&identitydomain.EntitySocialLink{},
		&identitydomain.EntityConfiguration{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &fixture{
		svc:  NewService(repository.NewRepository(db), node, zap.NewNop()),
		db:   db,
		node: node,
	}

	f.owner = identitydomain.Profile{
		ID:          node.Generate(),
		ClerkUserID: "user_owner",
		FullName:    "Ada Lovelace",
		Username:    "ada",
	}
	f.member = identitydomain.Profile{
		ID:          node.Generate(),
		ClerkUserID: "user_member",
		Username:    "grace",
	}
	require.NoError(t, db.Create(&f.owner).Error)
	require.NoError(t, db.Create(&f.member).Error)

	f.entity = identitydomain.Entity{
		ID:                  node.Generate(),
		ClerkOrganizationID: "org_1",
		Name:                "Acme Capital",
		Handle:              "acme-capital",
		CreatedBy:           f.owner.ID,
	}
	require.NoError(t, db.Create(&f.entity).Error)

	joined := time.Now().UTC()
	require.NoError(t, db.Create(&identitydomain.EntityMembership{
		ID:        node.Generate(),
		EntityID:  f.entity.ID,
		ProfileID: f.owner.ID,
		Role:      identitydomain.RoleOwner,
		JoinedAt:  joined,
	}).Error)
	require.NoError(t, db.Create(&identitydomain.EntityMembership{
		ID:        node.Generate(),
		EntityID:  f.entity.ID,
		ProfileID: f.member.ID,
		Role:      identitydomain.RoleMember,
		JoinedAt:  joined.Add(time.Second),
	}).Error)
	return f
}

func TestGetByHandle(t *testing.T) {
	f := newFixture(t)

	detail, err := f.svc.GetByHandle(context.Background(), "acme-capital")
	require.NoError(t, err)
	assert.Equal(t, f.entity.ID.String(), detail.ID)
	assert.Equal(t, "Acme Capital", detail.Name)
	require.Len(t, detail.Members, 2)
	assert.Equal(t, identitydomain.RoleOwner, detail.Members[0].Role)
	assert.Equal(t, "ada", detail.Members[0].Username)
	assert.Empty(t, detail.Links)

	_, err = f.svc.GetByHandle(context.Background(), "no-such-handle")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetByHandle(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidEntity)
}

func TestAddSocialLink(t *testing.T) {
	f := newFixture(t)

	link, err := f.svc.AddSocialLink(context.Background(), "user_owner", "acme-capital", domain.AddSocialLinkRequest{
		Platform: " X ",
		URL:      "https://x.example/acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "x", link.Platform)

	detail, err := f.svc.GetByHandle(context.Background(), "acme-capital")
	require.NoError(t, err)
	require.Len(t, detail.Links, 1)
	assert.Equal(t, "https://x.example/acme", detail.Links[0].URL)

	_, err = f.svc.AddSocialLink(context.Background(), "user_owner", "acme-capital", domain.AddSocialLinkRequest{
		Platform: "x",
		URL:      "http://insecure.example",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	_, err = f.svc.AddSocialLink(context.Background(), "user_owner", "acme-capital", domain.AddSocialLinkRequest{
		URL: "https://x.example/acme",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
}

func TestAddSocialLinkAuthorization(t *testing.T) {
	f := newFixture(t)
	req := domain.AddSocialLinkRequest{Platform: "x", URL: "https://x.example/acme"}

	// Plain members cannot manage links.
	_, err := f.svc.AddSocialLink(context.Background(), "user_member", "acme-capital", req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Unknown actors are rejected the same way.
	_, err = f.svc.AddSocialLink(context.Background(), "user_stranger", "acme-capital", req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.AddSocialLink(context.Background(), "user_owner", "no-such-handle", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.AddSocialLink(context.Background(), "user_owner", " ", req)
	assert.ErrorIs(t, err, domain.ErrInvalidEntity)
}

func TestRemoveSocialLink(t *testing.T) {
	f := newFixture(t)

	link, err := f.svc.AddSocialLink(context.Background(), "user_owner", "acme-capital", domain.AddSocialLinkRequest{
		Platform: "x",
		URL:      "https://x.example/acme",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveSocialLink(context.Background(), "user_owner", "acme-capital", link.ID))
	assert.ErrorIs(t, f.svc.RemoveSocialLink(context.Background(), "user_owner", "acme-capital", link.ID), domain.ErrNotFound)
}

func TestConfigurationRoundTrip(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.SetConfiguration(context.Background(), "user_owner", "acme-capital", "visibility", map[string]any{
		"mode": "public",
	}))

	// Members may read configuration even though they cannot write it.
	entries, err := f.svc.ListConfiguration(context.Background(), "user_member", "acme-capital")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visibility", entries[0].Key)
	assert.Equal(t, "public", entries[0].Value["mode"])

	// Same key overwrites in place.
	require.NoError(t, f.svc.SetConfiguration(context.Background(), "user_owner", "acme-capital", "visibility", map[string]any{
		"mode": "private",
	}))
	entries, err = f.svc.ListConfiguration(context.Background(), "user_owner", "acme-capital")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "private", entries[0].Value["mode"])

	assert.ErrorIs(t,
		f.svc.SetConfiguration(context.Background(), "user_member", "acme-capital", "visibility", nil),
		domain.ErrForbidden,
	)
	assert.ErrorIs(t,
		f.svc.SetConfiguration(context.Background(), "user_owner", "acme-capital", "  ", nil),
		domain.ErrInvalidKey,
	)
	_, err = f.svc.ListConfiguration(context.Background(), "user_stranger", "acme-capital")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
