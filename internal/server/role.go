package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
)

func (s *Server) CreateRole(c *gin.Context) {
	var req roledomain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.roleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRoles(c *gin.Context) {
	resp, err := s.roleSvc.List(c.Request.Context(), claimsFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.roleSvc.Get(c.Request.Context(), claimsFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req roledomain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.roleSvc.Update(c.Request.Context(), claimsFrom(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.roleSvc.Delete(c.Request.Context(), claimsFrom(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type setPermissionsRequest struct {
	PermissionIDs []snowflake.ID `json:"permission_ids"`
}

func (s *Server) SetRolePermissions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req setPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.roleSvc.SetPermissions(c.Request.Context(), claimsFrom(c), id, req.PermissionIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRolePermissions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.roleSvc.ListPermissionsWithAssignment(c.Request.Context(), claimsFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
