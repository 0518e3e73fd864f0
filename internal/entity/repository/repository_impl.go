package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vantagehq/vantage/internal/entity/domain"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) FindEntityByHandle(ctx context.Context, handle string) (*identitydomain.Entity, error) {
	var entity identitydomain.Entity
	err := r.db.WithContext(ctx).First(&entity, "handle = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *repository) FindProfileByClerkID(ctx context.Context, clerkUserID string) (*identitydomain.Profile, error) {
	var profile identitydomain.Profile
	err := r.db.WithContext(ctx).First(&profile, "clerk_user_id = ?", clerkUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindMemberRole(ctx context.Context, entityID, profileID snowflake.ID) (string, error) {
	var member identitydomain.EntityMembership
	err := r.db.WithContext(ctx).
		First(&member, "entity_id = ? AND profile_id = ?", entityID, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (r *repository) ListSocialLinks(ctx context.Context, entityID snowflake.ID) ([]identitydomain.EntitySocialLink, error) {
	var links []identitydomain.EntitySocialLink
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) CreateSocialLink(ctx context.Context, link identitydomain.EntitySocialLink) error {
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *repository) DeleteSocialLink(ctx context.Context, entityID, linkID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM entity_social_links WHERE id = ? AND entity_id = ?`, linkID, entityID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) ListMembers(ctx context.Context, entityID snowflake.ID) ([]domain.MemberRow, error) {
	var rows []domain.MemberRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.id AS profile_id, p.full_name, p.username, p.avatar_url, m.role, m.joined_at
		 FROM entity_members m
		 JOIN profiles p ON p.id = m.profile_id
		 WHERE m.entity_id = ?
		 ORDER BY m.joined_at ASC`,
		entityID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpsertConfiguration(ctx context.Context, entry identitydomain.EntityConfiguration) error {
	var existing identitydomain.EntityConfiguration
	err := r.db.WithContext(ctx).
		First(&existing, "entity_id = ? AND key = ?", entry.EntityID, entry.Key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&entry).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&identitydomain.EntityConfiguration{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"value":      entry.Value,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) ListConfigurations(ctx context.Context, entityID snowflake.ID) ([]identitydomain.EntityConfiguration, error) {
	var entries []identitydomain.EntityConfiguration
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("key ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
