package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/tenantgate/tenantgate/internal/auth/domain"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/authz"
	itemdomain "github.com/tenantgate/tenantgate/internal/item/domain"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	"github.com/tenantgate/tenantgate/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

type errorPayload struct {
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware renders the last handler error after the chain has
// run, so handlers only ever push errors and return.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var vErrs validate.ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrMalformedLogin),
		errors.Is(err, userdomain.ErrSelfDeletion):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authz.ErrForbidden),
		errors.Is(err, userdomain.ErrProtectedAccount):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, orgdomain.ErrOrganizationNotFound),
		errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, roledomain.ErrRoleNotFound),
		errors.Is(err, permdomain.ErrPermissionNotFound),
		errors.Is(err, itemdomain.ErrItemNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, orgdomain.ErrOrganizationExists),
		errors.Is(err, userdomain.ErrUserExists),
		errors.Is(err, roledomain.ErrRoleExists),
		errors.Is(err, permdomain.ErrPermissionExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog buckets handler errors for the request log line.
func classifyErrorForLog(err error) (kind, detail string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "internal", payload.Type
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth", payload.Type
	default:
		return "client", payload.Type
	}
}
