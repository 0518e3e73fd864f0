package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/vantagehq/vantage/internal/identity/domain"
	dbpkg "github.com/vantagehq/vantage/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storeTimeout bounds every store interaction for one event. On expiry the
// outcome is retryable and the sender's redelivery takes over.
const storeTimeout = 10 * time.Second

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
		log:   log.Named("identity.sync"),
	}
}

// Process routes one classified event to its handler. Every handler is
// idempotent: applying the same event twice converges to the same state.
func (s *service) Process(ctx context.Context, evt domain.Event) (domain.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	switch e := evt.(type) {
	case domain.UserUpserted:
		return s.applyUserUpserted(ctx, e)
	case domain.UserDeleted:
		return s.applyUserDeleted(ctx, e)
	case domain.OrganizationCreated:
		return s.applyOrganizationCreated(ctx, e)
	case domain.OrganizationUpdated:
		return s.applyOrganizationUpdated(ctx, e)
	case domain.OrganizationDeleted:
		return s.applyOrganizationDeleted(ctx, e)
	case domain.MembershipUpserted:
		return s.applyMembershipUpserted(ctx, e)
	case domain.MembershipDeleted:
		return s.applyMembershipDeleted(ctx, e)
	default:
		return domain.OutcomeNoOp, fmt.Errorf("%w: unhandled event type %T", domain.ErrInvalidEvent, evt)
	}
}

func (s *service) applyUserUpserted(ctx context.Context, evt domain.UserUpserted) (domain.Outcome, error) {
	profile, err := s.repo.FindProfileByClerkID(ctx, evt.ClerkUserID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}

	if profile == nil {
		created := domain.Profile{
			ID:          s.genID.Generate(),
			ClerkUserID: evt.ClerkUserID,
			FullName:    deref(evt.FullName),
			Username:    deref(evt.Username),
			AvatarURL:   deref(evt.AvatarURL),
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := s.repo.CreateProfile(ctx, created); err != nil {
			return domain.OutcomeNoOp, classifyWriteErr(err)
		}
		s.log.Info("profile created", zap.String("clerk_user_id", evt.ClerkUserID))
		return domain.OutcomeApplied, nil
	}

	// Partial update: absent fields never clobber stored values.
	fields := map[string]any{}
	if evt.FullName != nil {
		fields["full_name"] = *evt.FullName
	}
	if evt.Username != nil {
		fields["username"] = *evt.Username
	}
	if evt.AvatarURL != nil {
		fields["avatar_url"] = *evt.AvatarURL
	}
	if len(fields) == 0 {
		return domain.OutcomeNoOp, nil
	}
	if err := s.repo.UpdateProfileFields(ctx, profile.ID, fields); err != nil {
		return domain.OutcomeNoOp, err
	}
	return domain.OutcomeApplied, nil
}

func (s *service) applyUserDeleted(ctx context.Context, evt domain.UserDeleted) (domain.Outcome, error) {
	profile, err := s.repo.FindProfileByClerkID(ctx, evt.ClerkUserID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if profile == nil {
		// Already gone; acceptable under at-least-once delivery.
		return domain.OutcomeNoOp, nil
	}

	// Membership rows are cleaned up by the IdP's own membership-deletion
	// events, not here.
	if err := s.repo.DeleteProfile(ctx, profile.ID); err != nil {
		return domain.OutcomeNoOp, err
	}
	s.log.Info("profile deleted", zap.String("clerk_user_id", evt.ClerkUserID))
	return domain.OutcomeApplied, nil
}

func (s *service) applyOrganizationCreated(ctx context.Context, evt domain.OrganizationCreated) (domain.Outcome, error) {
	creator, err := s.repo.FindProfileByClerkID(ctx, evt.CreatedBy)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if creator == nil {
		// Ordering hazard: the creator's user.created has not landed yet.
		return domain.OutcomeNoOp, fmt.Errorf("%w: profile %s", domain.ErrMissingPrerequisite, evt.CreatedBy)
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entity, err := repo.FindEntityByClerkID(ctx, evt.ClerkOrganizationID)
		if err != nil {
			return err
		}
		if entity == nil {
			created := domain.Entity{
				ID:                  s.genID.Generate(),
				ClerkOrganizationID: evt.ClerkOrganizationID,
				Name:                evt.Name,
				Handle:              deriveHandle(evt.Name, evt.Slug),
				AvatarURL:           deref(evt.AvatarURL),
				CreatedBy:           creator.ID,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := repo.CreateEntity(ctx, created); err != nil {
				return err
			}
			entity = &created
		} else {
			// Redelivery after partial application: refresh fields but keep
			// the surrogate key so the owner membership below lines up.
			fields := map[string]any{
				"name":   evt.Name,
				"handle": deriveHandle(evt.Name, evt.Slug),
			}
			if evt.AvatarURL != nil {
				fields["avatar_url"] = *evt.AvatarURL
			}
			if err := repo.UpdateEntityFields(ctx, entity.ID, fields); err != nil {
				return err
			}
		}

		member, err := repo.FindMembership(ctx, entity.ID, creator.ID)
		if err != nil {
			return err
		}
		if member == nil {
			return repo.CreateMembership(ctx, domain.EntityMembership{
				ID:        s.genID.Generate(),
				EntityID:  entity.ID,
				ProfileID: creator.ID,
				Role:      domain.RoleOwner,
				JoinedAt:  now,
			})
		}
		return nil
	})
	if err != nil {
		return domain.OutcomeNoOp, classifyWriteErr(err)
	}

	s.log.Info("entity created",
		zap.String("clerk_organization_id", evt.ClerkOrganizationID),
		zap.String("created_by", evt.CreatedBy),
	)
	return domain.OutcomeApplied, nil
}

func (s *service) applyOrganizationUpdated(ctx context.Context, evt domain.OrganizationUpdated) (domain.Outcome, error) {
	entity, err := s.repo.FindEntityByClerkID(ctx, evt.ClerkOrganizationID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if entity == nil {
		// Create happens on .created only.
		return domain.OutcomeNoOp, nil
	}

	fields := map[string]any{
		"name":   evt.Name,
		"handle": deriveHandle(evt.Name, evt.Slug),
	}
	if evt.AvatarURL != nil {
		fields["avatar_url"] = *evt.AvatarURL
	}
	if err := s.repo.UpdateEntityFields(ctx, entity.ID, fields); err != nil {
		return domain.OutcomeNoOp, err
	}
	return domain.OutcomeApplied, nil
}

func (s *service) applyOrganizationDeleted(ctx context.Context, evt domain.OrganizationDeleted) (domain.Outcome, error) {
	entity, err := s.repo.FindEntityByClerkID(ctx, evt.ClerkOrganizationID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if entity == nil {
		return domain.OutcomeNoOp, nil
	}

	// Children before parent. Each step is an idempotent keyed delete, so a
	// failure partway through is safe to retry from the top.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteConfigurationsByEntity(ctx, entity.ID); err != nil {
			return err
		}
		if err := repo.DeleteSocialLinksByEntity(ctx, entity.ID); err != nil {
			return err
		}
		if err := repo.DeleteMembershipsByEntity(ctx, entity.ID); err != nil {
			return err
		}
		return repo.DeleteEntity(ctx, entity.ID)
	})
	if err != nil {
		return domain.OutcomeNoOp, err
	}

	s.log.Info("entity deleted", zap.String("clerk_organization_id", evt.ClerkOrganizationID))
	return domain.OutcomeApplied, nil
}

func (s *service) applyMembershipUpserted(ctx context.Context, evt domain.MembershipUpserted) (domain.Outcome, error) {
	profile, entity, err := s.resolvePair(ctx, evt.ClerkUserID, evt.ClerkOrganizationID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if profile == nil {
		return domain.OutcomeNoOp, fmt.Errorf("%w: profile %s", domain.ErrMissingPrerequisite, evt.ClerkUserID)
	}
	if entity == nil {
		return domain.OutcomeNoOp, fmt.Errorf("%w: entity %s", domain.ErrMissingPrerequisite, evt.ClerkOrganizationID)
	}

	role := domain.MapRole(evt.Role)
	member, err := s.repo.FindMembership(ctx, entity.ID, profile.ID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if member == nil {
		err := s.repo.CreateMembership(ctx, domain.EntityMembership{
			ID:        s.genID.Generate(),
			EntityID:  entity.ID,
			ProfileID: profile.ID,
			Role:      role,
			JoinedAt:  time.Now().UTC(),
		})
		if err != nil {
			return domain.OutcomeNoOp, classifyWriteErr(err)
		}
		return domain.OutcomeApplied, nil
	}

	if member.Role == role {
		return domain.OutcomeNoOp, nil
	}
	// Role transitions overwrite in place; joined_at is never refreshed.
	if err := s.repo.UpdateMembershipRole(ctx, member.ID, role); err != nil {
		return domain.OutcomeNoOp, err
	}
	return domain.OutcomeApplied, nil
}

func (s *service) applyMembershipDeleted(ctx context.Context, evt domain.MembershipDeleted) (domain.Outcome, error) {
	profile, entity, err := s.resolvePair(ctx, evt.ClerkUserID, evt.ClerkOrganizationID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if profile == nil || entity == nil {
		// Membership cannot exist without both sides; nothing to delete.
		return domain.OutcomeNoOp, nil
	}

	member, err := s.repo.FindMembership(ctx, entity.ID, profile.ID)
	if err != nil {
		return domain.OutcomeNoOp, err
	}
	if member == nil {
		return domain.OutcomeNoOp, nil
	}
	if err := s.repo.DeleteMembership(ctx, entity.ID, profile.ID); err != nil {
		return domain.OutcomeNoOp, err
	}
	return domain.OutcomeApplied, nil
}

func (s *service) resolvePair(ctx context.Context, clerkUserID, clerkOrganizationID string) (*domain.Profile, *domain.Entity, error) {
	profile, err := s.repo.FindProfileByClerkID(ctx, clerkUserID)
	if err != nil {
		return nil, nil, err
	}
	entity, err := s.repo.FindEntityByClerkID(ctx, clerkOrganizationID)
	if err != nil {
		return nil, nil, err
	}
	return profile, entity, nil
}

// classifyWriteErr maps a unique-index violation to a retryable outcome.
// Two concurrent deliveries of the same event can race into the insert
// path; redelivery takes the update path and converges.
func classifyWriteErr(err error) error {
	if dbpkg.IsDuplicateKeyErr(err) {
		return fmt.Errorf("%w: concurrent delivery", domain.ErrMissingPrerequisite)
	}
	return err
}

func deriveHandle(name string, idpSlug *string) string {
	if idpSlug != nil && *idpSlug != "" {
		return *idpSlug
	}
	return slug.Make(name)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
