package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	identitydomain "github.com/vantagehq/vantage/internal/identity/domain"
)

// The public lookup and the authed config route share the :handle wildcard
// position in the GET tree; both must register and resolve.
func TestEntityRoutesRegisterAndResolve(t *testing.T) {
	engine, db := newTestServer(t)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	owner := identitydomain.Profile{ID: node.Generate(), ClerkUserID: "user_9", Username: "ada"}
	require.NoError(t, db.Create(&owner).Error)
	entity := identitydomain.Entity{
		ID:                  node.Generate(),
		ClerkOrganizationID: "org_1",
		Name:                "Acme Capital",
		Handle:              "acme-capital",
		CreatedBy:           owner.ID,
	}
	require.NoError(t, db.Create(&entity).Error)
	require.NoError(t, db.Create(&identitydomain.EntityMembership{
		ID:        node.Generate(),
		EntityID:  entity.ID,
		ProfileID: owner.ID,
		Role:      identitydomain.RoleOwner,
		JoinedAt:  time.Now().UTC(),
	}).Error)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entities/acme-capital", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Capital")

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entities/no-such-handle", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Authed subroute at the same wildcard position; rejected before the
	// handler without a bearer credential.
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entities/acme-capital/config", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
