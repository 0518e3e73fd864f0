package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vantagehq/vantage/internal/identity/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) FindProfileByClerkID(ctx context.Context, clerkUserID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).First(&profile, "clerk_user_id = ?", clerkUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) CreateProfile(ctx context.Context, profile domain.Profile) error {
	return r.db.WithContext(ctx).Create(&profile).Error
}

func (r *repository) UpdateProfileFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) DeleteProfile(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM profiles WHERE id = ?`, id,
	).Error
}

func (r *repository) FindEntityByClerkID(ctx context.Context, clerkOrganizationID string) (*domain.Entity, error) {
	var entity domain.Entity
	err := r.db.WithContext(ctx).First(&entity, "clerk_organization_id = ?", clerkOrganizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *repository) CreateEntity(ctx context.Context, entity domain.Entity) error {
	return r.db.WithContext(ctx).Create(&entity).Error
}

func (r *repository) UpdateEntityFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Entity{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) DeleteEntity(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM entities WHERE id = ?`, id,
	).Error
}

func (r *repository) FindMembership(ctx context.Context, entityID, profileID snowflake.ID) (*domain.EntityMembership, error) {
	var member domain.EntityMembership
	err := r.db.WithContext(ctx).
		First(&member, "entity_id = ? AND profile_id = ?", entityID, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repository) CreateMembership(ctx context.Context, member domain.EntityMembership) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) UpdateMembershipRole(ctx context.Context, id snowflake.ID, role string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE entity_members SET role = ? WHERE id = ?`, role, id,
	).Error
}

func (r *repository) DeleteMembership(ctx context.Context, entityID, profileID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM entity_members WHERE entity_id = ? AND profile_id = ?`, entityID, profileID,
	).Error
}

func (r *repository) DeleteConfigurationsByEntity(ctx context.Context, entityID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM entity_configurations WHERE entity_id = ?`, entityID,
	).Error
}

func (r *repository) DeleteSocialLinksByEntity(ctx context.Context, entityID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM entity_social_links WHERE entity_id = ?`, entityID,
	).Error
}

func (r *repository) DeleteMembershipsByEntity(ctx context.Context, entityID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM entity_members WHERE entity_id = ?`, entityID,
	).Error
}
