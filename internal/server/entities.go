package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	entitydomain "github.com/vantagehq/vantage/internal/entity/domain"
)

func (s *Server) GetEntityByHandle(c *gin.Context) {
	detail, err := s.entitySvc.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) AddEntitySocialLink(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req entitydomain.AddSocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	link, err := s.entitySvc.AddSocialLink(c.Request.Context(), principal.UserID, c.Param("handle"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (s *Server) RemoveEntitySocialLink(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	err := s.entitySvc.RemoveSocialLink(c.Request.Context(), principal.UserID, c.Param("handle"), c.Param("linkID"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListEntityConfiguration(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	entries, err := s.entitySvc.ListConfiguration(c.Request.Context(), principal.UserID, c.Param("handle"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type setConfigurationRequest struct {
	Value map[string]any `json:"value"`
}

func (s *Server) SetEntityConfiguration(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req setConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.entitySvc.SetConfiguration(c.Request.Context(), principal.UserID, c.Param("handle"), c.Param("key"), req.Value)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
