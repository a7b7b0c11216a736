package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/tenantgate/tenantgate/pkg/validate"
)

type loginRequest struct {
	// Username carries the full login identifier, e.g. `acme\admin`.
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.authSvc.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) Me(c *gin.Context) {
	resp, err := s.authSvc.CurrentUser(c.Request.Context(), claimsFrom(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func pathID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, validate.Field("id", "must be a numeric id"))
		return 0, false
	}
	return id, true
}
