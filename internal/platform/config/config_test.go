package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APIS_DATABASE", "https://database.example.org/api/")
	t.Setenv("APIS_ACCOUNTS", "https://accounts.example.org")
	t.Setenv("APIS_MESSAGING", "https://messaging.example.org")
	t.Setenv("APIS_SCOPES", "database-readwrite")
	t.Setenv("AUTH_AUTHORITY", "https://auth.example.org/")
	t.Setenv("UNIT_ID", "11111111-2222-3333-4444-555555555555")
	t.Setenv("NEW_MEMBER_STATUS", "trainee")
	t.Setenv("TOKEN_URL", "https://auth.example.org/connect/token")
	t.Setenv("TOKEN_CLIENT_ID", "training-api")
	t.Setenv("TOKEN_CLIENT_SECRET", "secret")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://database.example.org/api", cfg.DatabaseAPIRoot, "trailing slash trimmed")
	assert.Equal(t, "https://auth.example.org", cfg.AuthAuthority)
	assert.Equal(t, "database-readwrite", cfg.DatabaseScope)
	assert.Equal(t, "trainee", cfg.NewMemberStatus)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cfg.UnitID.String())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APIS_DATABASE", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNilUnitID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UNIT_ID", "00000000-0000-0000-0000-000000000000")

	_, err := Load()
	assert.ErrorContains(t, err, "UNIT_ID")
}

func TestLoadRejectsRelativeURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APIS_MESSAGING", "messaging.example.org")

	_, err := Load()
	assert.ErrorContains(t, err, "APIS_MESSAGING")
}
