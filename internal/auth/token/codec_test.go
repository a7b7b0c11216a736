package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantgate/tenantgate/internal/clock"
	"github.com/tenantgate/tenantgate/internal/config"
)

func testCodec(t *testing.T, clk clock.Clock) *Codec {
	t.Helper()
	c, err := NewCodec(config.Config{
		AuthSecret:    "test-secret",
		AuthAlgorithm: "HS256",
		AuthTokenTTL:  30 * time.Minute,
	}, clk)
	require.NoError(t, err)
	return c
}

func TestNewCodec_Validation(t *testing.T) {
	clk := clock.System()

	_, err := NewCodec(config.Config{AuthAlgorithm: "HS256"}, clk)
	assert.Error(t, err)

	_, err = NewCodec(config.Config{AuthSecret: "s", AuthAlgorithm: "none"}, clk)
	assert.Error(t, err)

	_, err = NewCodec(config.Config{AuthSecret: "s", AuthAlgorithm: "RS256"}, clk)
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	codec := testCodec(t, clk)

	org := "org_1"
	raw, expiresAt, err := codec.Issue("42", &org, []string{"read:items", "create:items"}, false)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(30*time.Minute), expiresAt)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, "org_1", *claims.OrganizationID)
	assert.Equal(t, []string{"read:items", "create:items"}, claims.Permissions)
	assert.False(t, claims.PlatformAdmin)
	assert.True(t, claims.HasPermission("read:items"))
	assert.False(t, claims.HasPermission("delete:items"))
}

func TestCodec_PlatformAdmin(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	codec := testCodec(t, clk)

	raw, _, err := codec.Issue("1", nil, nil, true)
	require.NoError(t, err)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, claims.OrganizationID)
	assert.Equal(t, "", claims.OrgID())
	assert.True(t, claims.PlatformAdmin)
	assert.Empty(t, claims.Permissions)
}

func TestCodec_Expired(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	codec := testCodec(t, clk)

	raw, _, err := codec.Issue("42", nil, nil, false)
	require.NoError(t, err)

	clk.Advance(31 * time.Minute)

	_, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Tampered(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	codec := testCodec(t, clk)

	raw, _, err := codec.Issue("42", nil, nil, false)
	require.NoError(t, err)

	_, err = codec.Decode(raw[:len(raw)-2] + "xx")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_WrongSecret(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	codec := testCodec(t, clk)

	other, err := NewCodec(config.Config{
		AuthSecret:    "other-secret",
		AuthAlgorithm: "HS256",
		AuthTokenTTL:  time.Minute,
	}, clk)
	require.NoError(t, err)

	raw, _, err := other.Issue("42", nil, nil, false)
	require.NoError(t, err)

	_, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Malformed(t *testing.T) {
	codec := testCodec(t, clock.System())

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
