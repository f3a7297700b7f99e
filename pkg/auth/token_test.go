package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techdealshub/techdealshub-backend/pkg/config"
)

func testJWTConfig() config.AdminJWTConfig {
	return config.AdminJWTConfig{
		Secret:            "test-secret",
		Issuer:            "techdealshub-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAdminToken(cfg, time.Now(), "ops@techdealshub.example")
	require.NoError(t, err)

	claims, err := ParseAdminToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "ops@techdealshub.example", claims.Subject)
	assert.Equal(t, AdminRole, claims.Role)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAdminTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAdminToken(cfg, time.Now(), "ops@techdealshub.example")
	require.NoError(t, err)

	bad := cfg
	bad.Secret = "other-secret"
	_, err = ParseAdminToken(bad, token)
	assert.Error(t, err)
}

func TestParseAdminTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAdminToken(cfg, time.Now().Add(-2*time.Hour), "ops@techdealshub.example")
	require.NoError(t, err)

	_, err = ParseAdminToken(cfg, token)
	assert.Error(t, err)
}

func TestMintAdminTokenRequiresConfig(t *testing.T) {
	_, err := MintAdminToken(config.AdminJWTConfig{}, time.Now(), "ops")
	assert.Error(t, err)

	cfg := testJWTConfig()
	_, err = MintAdminToken(cfg, time.Now(), "")
	assert.Error(t, err)
}
