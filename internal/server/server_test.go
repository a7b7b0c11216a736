package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	authservice "github.com/tenantgate/tenantgate/internal/auth/service"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/authz"
	"github.com/tenantgate/tenantgate/internal/clock"
	"github.com/tenantgate/tenantgate/internal/config"
	itemrepository "github.com/tenantgate/tenantgate/internal/item/repository"
	itemservice "github.com/tenantgate/tenantgate/internal/item/service"
	"github.com/tenantgate/tenantgate/internal/migration"
	"github.com/tenantgate/tenantgate/internal/observability"
	orgrepository "github.com/tenantgate/tenantgate/internal/organization/repository"
	orgservice "github.com/tenantgate/tenantgate/internal/organization/service"
	permrepository "github.com/tenantgate/tenantgate/internal/permission/repository"
	permservice "github.com/tenantgate/tenantgate/internal/permission/service"
	rolerepository "github.com/tenantgate/tenantgate/internal/role/repository"
	roleservice "github.com/tenantgate/tenantgate/internal/role/service"
	"github.com/tenantgate/tenantgate/internal/seed"
	userrepository "github.com/tenantgate/tenantgate/internal/user/repository"
	userservice "github.com/tenantgate/tenantgate/internal/user/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migration.Run(gdb))
	require.NoError(t, seed.Ensure(gdb))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	codec, err := token.NewCodec(config.Config{
		AuthSecret:    "test-secret",
		AuthAlgorithm: "HS256",
		AuthTokenTTL:  30 * time.Minute,
	}, clk)
	require.NoError(t, err)

	log := zap.NewNop()
	hasher := password.NewHasher()

	orgRepo := orgrepository.NewRepository(gdb)
	userRepo := userrepository.NewRepository(gdb)
	roleRepo := rolerepository.NewRepository(gdb)
	permRepo := permrepository.NewRepository(gdb)
	itemRepo := itemrepository.NewRepository(gdb)

	return NewServer(ServerParams{
		Gin:       NewEngine(observability.Config{}, nil),
		Cfg:       config.Config{},
		DB:        gdb,
		GenID:     node,
		Codec:     codec,
		Evaluator: authz.NewEvaluator(log, nil),
		AuthSvc:   authservice.NewService(userRepo, orgRepo, hasher, codec, nil, log),
		OrgSvc:    orgservice.NewService(orgRepo, node, log),
		UserSvc:   userservice.NewService(gdb, userRepo, roleRepo, orgRepo, hasher, node, log),
		RoleSvc:   roleservice.NewService(gdb, roleRepo, permRepo, node, log),
		PermSvc:   permservice.NewService(permRepo, node, log),
		ItemSvc:   itemservice.NewService(itemRepo, orgRepo, node, log),
	})
}

func login(t *testing.T, s *Server, identifier, pass string) string {
	t.Helper()

	body, err := json.Marshal(gin.H{"username": identifier, "password": pass})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func doJSON(s *Server, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	w := doJSON(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := setupServer(t)
	bearer := login(t, s, `acme\admin`, "admin")

	w := doJSON(s, http.MethodGet, "/auth/users/me", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me struct {
		Username       string  `json:"username"`
		OrganizationID *string `json:"organization_id"`
	}
	require.NoError(t, json.Unmarshal(dataField(t, w), &me))
	assert.Equal(t, "admin", me.Username)
	require.NotNil(t, me.OrganizationID)
	assert.Equal(t, "org_1", *me.OrganizationID)
}

func TestLoginFailures(t *testing.T) {
	s := setupServer(t)

	w := doJSON(s, http.MethodPost, "/auth/login", "", gin.H{"username": "no-separator", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(s, http.MethodPost, "/auth/login", "", gin.H{"username": `acme\admin`, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMissingOrBadToken(t *testing.T) {
	s := setupServer(t)

	w := doJSON(s, http.MethodGet, "/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(s, http.MethodGet, "/items", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionGate(t *testing.T) {
	s := setupServer(t)

	// Tenant admins hold no organization permissions.
	adminBearer := login(t, s, `acme\admin`, "admin")
	w := doJSON(s, http.MethodGet, "/organizations", adminBearer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Viewers can read items but not create them.
	viewerBearer := login(t, s, `acme\viewer`, "viewer")
	w = doJSON(s, http.MethodGet, "/items", viewerBearer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(s, http.MethodPost, "/items", viewerBearer, gin.H{"name": "Widget"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	superBearer := login(t, s, `default\superadmin`, "superadmin")
	w = doJSON(s, http.MethodGet, "/organizations", superBearer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var orgs []json.RawMessage
	require.NoError(t, json.Unmarshal(dataField(t, w), &orgs))
	assert.Len(t, orgs, 3)
}

func TestItemCRUDFlow(t *testing.T) {
	s := setupServer(t)
	bearer := login(t, s, `acme\editor`, "editor")

	w := doJSON(s, http.MethodPost, "/items", bearer, gin.H{
		"name":  "Widget",
		"price": 12.5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		ID             snowflake.ID `json:"id"`
		OrganizationID string       `json:"organization_id"`
	}
	require.NoError(t, json.Unmarshal(dataField(t, w), &created))
	assert.Equal(t, "org_1", created.OrganizationID)

	path := fmt.Sprintf("/items/%s", created.ID)
	w = doJSON(s, http.MethodPatch, path, bearer, gin.H{"price": 15.0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(s, http.MethodDelete, path, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(s, http.MethodGet, path, bearer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrossTenantReadIsNotFound(t *testing.T) {
	s := setupServer(t)

	superBearer := login(t, s, `default\superadmin`, "superadmin")
	w := doJSON(s, http.MethodGet, "/items", superBearer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		ID             snowflake.ID `json:"id"`
		OrganizationID string       `json:"organization_id"`
	}
	require.NoError(t, json.Unmarshal(dataField(t, w), &items))
	require.Len(t, items, 2)

	var foreign snowflake.ID
	for _, it := range items {
		if it.OrganizationID == "org_2" {
			foreign = it.ID
		}
	}

	bearer := login(t, s, `acme\viewer`, "viewer")
	w = doJSON(s, http.MethodGet, fmt.Sprintf("/items/%s", foreign), bearer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserDeleteGuards(t *testing.T) {
	s := setupServer(t)
	bearer := login(t, s, `acme\admin`, "admin")

	w := doJSON(s, http.MethodGet, "/auth/users/me", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID snowflake.ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(dataField(t, w), &me))

	w = doJSON(s, http.MethodDelete, fmt.Sprintf("/users/%s", me.ID), bearer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMalformedPathID(t *testing.T) {
	s := setupServer(t)
	bearer := login(t, s, `acme\admin`, "admin")

	w := doJSON(s, http.MethodGet, "/users/not-a-number", bearer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaleTokenKeepsOldPermissions(t *testing.T) {
	s := setupServer(t)

	viewerBearer := login(t, s, `acme\viewer`, "viewer")
	superBearer := login(t, s, `default\superadmin`, "superadmin")

	// Strip the viewer role's only grant.
	w := doJSON(s, http.MethodGet, "/roles", superBearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roles []struct {
		ID   snowflake.ID `json:"id"`
		Name string       `json:"name"`
	}
	require.NoError(t, json.Unmarshal(dataField(t, w), &roles))
	var viewerRole snowflake.ID
	for _, r := range roles {
		if r.Name == "viewer" {
			viewerRole = r.ID
		}
	}

	w = doJSON(s, http.MethodPost, fmt.Sprintf("/roles/%s/permissions", viewerRole), superBearer,
		gin.H{"permission_ids": []snowflake.ID{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The already issued token still carries the snapshot from login time.
	w = doJSON(s, http.MethodGet, "/items", viewerBearer, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A fresh login picks up the revocation.
	freshBearer := login(t, s, `acme\viewer`, "viewer")
	w = doJSON(s, http.MethodGet, "/items", freshBearer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
