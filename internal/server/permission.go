package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
)

func (s *Server) CreatePermission(c *gin.Context) {
	var req permdomain.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.permSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPermissions(c *gin.Context) {
	resp, err := s.permSvc.List(c.Request.Context(), claimsFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.permSvc.Get(c.Request.Context(), claimsFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req permdomain.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.permSvc.Update(c.Request.Context(), claimsFrom(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePermission(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.permSvc.Delete(c.Request.Context(), claimsFrom(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
