// Package idp is the thin client for the identity provider's management API.
// The backend delegates session verification entirely; a bearer credential
// goes in, a principal (or nothing) comes out.
package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vantagehq/vantage/internal/config"
	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("idp_unavailable")
)

// Principal identifies the caller behind a verified credential.
type Principal struct {
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
	log       *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.ClerkAPIURL, "/"),
		secretKey: cfg.ClerkSecretKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.Named("idp"),
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID         string `json:"user_id"`
	SessionID      string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Status         string `json:"status"`
}

// VerifyToken exchanges a bearer credential for a principal. The token is
// opaque to this backend.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	if c.secretKey == "" {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions/verify", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
		return nil, ErrUnauthenticated
	default:
		c.log.Warn("unexpected idp response", zap.Int("status", resp.StatusCode))
		return nil, ErrUnavailable
	}

	var verified verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verified); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if verified.UserID == "" || !strings.EqualFold(verified.Status, "active") {
		return nil, ErrUnauthenticated
	}

	return &Principal{
		UserID:         verified.UserID,
		SessionID:      verified.SessionID,
		OrganizationID: verified.OrganizationID,
	}, nil
}
