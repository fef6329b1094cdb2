package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetatet/backend/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DSN", "host=localhost user=user dbname=tetatet")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.HTTPAddr)
	assert.Equal(t, "localhost:6379", s.RedisAddr)
	assert.Equal(t, config.DefaultTokenTTL, s.TokenTTL)
	assert.Equal(t, config.DefaultRoomTTL, s.RoomTTL)
	assert.Empty(t, s.AdminIDs)
}

func TestLoad_RequiresSecretAndDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DSN", "dsn")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DSN", "")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("TOKEN_TTL_MINUTES", "15")
	t.Setenv("ROOM_TTL_HOURS", "48")
	t.Setenv("ADMIN_IDS", "100, 200,300")

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", s.HTTPAddr)
	assert.Equal(t, 15*time.Minute, s.TokenTTL)
	assert.Equal(t, 48*time.Hour, s.RoomTTL)
	assert.Equal(t, []int64{100, 200, 300}, s.AdminIDs)
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL_MINUTES", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	s := &config.Settings{AdminIDs: []int64{100, 200}}

	assert.True(t, s.IsAdmin(100))
	assert.False(t, s.IsAdmin(300))
}
