package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vantagehq/vantage/internal/entity/domain"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		log:   log.Named("entity.service"),
	}
}

func (s *service) GetByHandle(ctx context.Context, handle string) (*domain.EntityDetail, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, domain.ErrInvalidEntity
	}

	entity, err := s.repo.FindEntityByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}

	links, err := s.repo.ListSocialLinks(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	detail := &domain.EntityDetail{
		ID:        entity.ID.String(),
		Handle:    entity.Handle,
		Name:      entity.Name,
		Brief:     entity.Brief,
		AvatarURL: entity.AvatarURL,
		Links:     make([]domain.SocialLink, 0, len(links)),
		Members:   make([]domain.Member, 0, len(members)),
	}
	for _, link := range links {
		detail.Links = append(detail.Links, domain.SocialLink{
			ID:       link.ID.String(),
			Platform: link.Platform,
			URL:      link.URL,
		})
	}
	for _, member := range members {
		detail.Members = append(detail.Members, domain.Member{
			ProfileID: member.ProfileID.String(),
			FullName:  member.FullName,
			Username:  member.Username,
			AvatarURL: member.AvatarURL,
			Role:      member.Role,
			JoinedAt:  member.JoinedAt,
		})
	}

	return detail, nil
}

func (s *service) AddSocialLink(ctx context.Context, actorClerkUserID, handle string, req domain.AddSocialLinkRequest) (*domain.SocialLink, error) {
	entity, err := s.authorizeManager(ctx, actorClerkUserID, handle)
	if err != nil {
		return nil, err
	}

	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform == "" {
		return nil, domain.ErrInvalidPlatform
	}
	rawURL := strings.TrimSpace(req.URL)
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return nil, domain.ErrInvalidURL
	}

	link := identitydomain.EntitySocialLink{
		ID:        s.genID.Generate(),
		EntityID:  entity.ID,
		Platform:  platform,
		URL:       rawURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateSocialLink(ctx, link); err != nil {
		return nil, err
	}

	return &domain.SocialLink{
		ID:       link.ID.String(),
		Platform: link.Platform,
		URL:      link.URL,
	}, nil
}

func (s *service) RemoveSocialLink(ctx context.Context, actorClerkUserID, handle, linkID string) error {
	entity, err := s.authorizeManager(ctx, actorClerkUserID, handle)
	if err != nil {
		return err
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(linkID))
	if err != nil {
		return domain.ErrNotFound
	}
	affected, err := s.repo.DeleteSocialLink(ctx, entity.ID, parsed)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *service) SetConfiguration(ctx context.Context, actorClerkUserID, handle, key string, value map[string]any) error {
	entity, err := s.authorizeManager(ctx, actorClerkUserID, handle)
	if err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrInvalidKey
	}
	if value == nil {
		value = map[string]any{}
	}

	now := time.Now().UTC()
	return s.repo.UpsertConfiguration(ctx, identitydomain.EntityConfiguration{
		ID:        s.genID.Generate(),
		EntityID:  entity.ID,
		Key:       key,
		Value:     datatypes.JSONMap(value),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *service) ListConfiguration(ctx context.Context, actorClerkUserID, handle string) ([]domain.ConfigurationEntry, error) {
	entity, err := s.authorizeMember(ctx, actorClerkUserID, handle)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListConfigurations(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ConfigurationEntry, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, domain.ConfigurationEntry{
			Key:       entry.Key,
			Value:     map[string]any(entry.Value),
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return resp, nil
}

func (s *service) authorizeManager(ctx context.Context, actorClerkUserID, handle string) (*identitydomain.Entity, error) {
	entity, role, err := s.resolveActor(ctx, actorClerkUserID, handle)
	if err != nil {
		return nil, err
	}
	if !identitydomain.CanManageEntity(role) {
		return nil, domain.ErrForbidden
	}
	return entity, nil
}

func (s *service) authorizeMember(ctx context.Context, actorClerkUserID, handle string) (*identitydomain.Entity, error) {
	entity, role, err := s.resolveActor(ctx, actorClerkUserID, handle)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, domain.ErrForbidden
	}
	return entity, nil
}

func (s *service) resolveActor(ctx context.Context, actorClerkUserID, handle string) (*identitydomain.Entity, string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, "", domain.ErrInvalidEntity
	}

	entity, err := s.repo.FindEntityByHandle(ctx, handle)
	if err != nil {
		return nil, "", err
	}
	if entity == nil {
		return nil, "", domain.ErrNotFound
	}

	profile, err := s.repo.FindProfileByClerkID(ctx, actorClerkUserID)
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", domain.ErrForbidden
	}

	role, err := s.repo.FindMemberRole(ctx, entity.ID, profile.ID)
	if err != nil {
		return nil, "", err
	}
	return entity, role, nil
}
