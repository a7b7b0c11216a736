package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	itemdomain "github.com/tenantgate/tenantgate/internal/item/domain"
)

func (s *Server) CreateItem(c *gin.Context) {
	var req itemdomain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.itemSvc.Create(c.Request.Context(), claimsFrom(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListItems(c *gin.Context) {
	resp, err := s.itemSvc.List(c.Request.Context(), claimsFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.itemSvc.Get(c.Request.Context(), claimsFrom(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req itemdomain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.itemSvc.Update(c.Request.Context(), claimsFrom(c), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.itemSvc.Delete(c.Request.Context(), claimsFrom(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
