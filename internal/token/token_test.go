package token_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetatet/backend/internal/token"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := token.NewIssuer("secret-key", time.Hour)

	signed, err := issuer.Issue(42, "room:male:abc")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, roomKey, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "room:male:abc", roomKey)
}

func TestIssue_ClaimsShape(t *testing.T) {
	issuer := token.NewIssuer("secret-key", 30*time.Minute)

	signed, err := issuer.Issue(7, "room:female:xyz")
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret-key"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)

	assert.Equal(t, "7", claims["sub"])
	assert.Equal(t, "room:female:xyz", claims["room"])
	assert.Equal(t, "tetatet-service", claims["iss"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp.Time, time.Minute)
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	issuer := token.NewIssuer("secret-key", 0)

	assert.Equal(t, time.Hour, issuer.TTL, "policy default is 60 minutes")
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer := token.NewIssuer("secret-key", time.Hour)
	other := token.NewIssuer("other-key", time.Hour)

	signed, err := issuer.Issue(42, "room:male:abc")
	require.NoError(t, err)

	_, _, err = other.Verify(signed)
	assert.Error(t, err)
}

func TestVerify_RejectsExpired(t *testing.T) {
	issuer := token.NewIssuer("secret-key", -time.Minute)
	issuer.TTL = -time.Minute // прострочений з моменту видачі

	signed, err := issuer.Issue(42, "room:male:abc")
	require.NoError(t, err)

	_, _, err = issuer.Verify(signed)
	assert.Error(t, err)
}

func TestIssue_FreshTokenPerGrant(t *testing.T) {
	issuer := token.NewIssuer("secret-key", time.Hour)

	first, err := issuer.Issue(42, "room:male:abc")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond) // exp має секундну гранулярність
	second, err := issuer.Issue(42, "room:male:abc")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "every grant mints a fresh token")
}
