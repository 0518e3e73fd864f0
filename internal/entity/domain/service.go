// Package domain defines the entity read/management surface driven by
// direct API calls, as opposed to the webhook-driven identity mirror.
package domain

import (
	"context"
	"errors"
	"time"
)

// Service is keyed by entity handle throughout; handles are the public
// addressing scheme, surrogate ids never leave the store layer.
type Service interface {
	GetByHandle(ctx context.Context, handle string) (*EntityDetail, error)
	AddSocialLink(ctx context.Context, actorClerkUserID, handle string, req AddSocialLinkRequest) (*SocialLink, error)
	RemoveSocialLink(ctx context.Context, actorClerkUserID, handle, linkID string) error
	SetConfiguration(ctx context.Context, actorClerkUserID, handle, key string, value map[string]any) error
	ListConfiguration(ctx context.Context, actorClerkUserID, handle string) ([]ConfigurationEntry, error)
}

type AddSocialLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type EntityDetail struct {
	ID        string       `json:"id"`
	Handle    string       `json:"handle"`
	Name      string       `json:"name"`
	Brief     string       `json:"brief"`
	AvatarURL string       `json:"avatar_url"`
	Links     []SocialLink `json:"links"`
	Members   []Member     `json:"members"`
}

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Member struct {
	ProfileID string    `json:"profile_id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

type ConfigurationEntry struct {
	Key       string         `json:"key"`
	Value     map[string]any `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

var (
	ErrNotFound        = errors.New("entity_not_found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidEntity   = errors.New("invalid_entity")
	ErrInvalidPlatform = errors.New("invalid_platform")
	ErrInvalidURL      = errors.New("invalid_url")
	ErrInvalidKey      = errors.New("invalid_key")
)
