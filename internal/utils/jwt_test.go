package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	userID := primitive.NewObjectID()

	token, err := GenerateSessionToken(userID, "mechanic", "test-secret", 0)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, "mechanic", claims.Role)
	assert.Equal(t, AppName, claims.Issuer)
}

func TestSessionTokenTTL(t *testing.T) {
	token, err := GenerateSessionToken(primitive.NewObjectID(), "customer", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 55*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}

func TestSessionTokenDefaultTTL(t *testing.T) {
	token, err := GenerateSessionToken(primitive.NewObjectID(), "customer", "test-secret", 0)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, JWTSessionTokenTTL-5*time.Minute)
	assert.LessOrEqual(t, remaining, JWTSessionTokenTTL)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(primitive.NewObjectID(), "customer", "test-secret", 0)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}

func TestExtractUserIDFromToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := GenerateSessionToken(userID, "admin", "test-secret", 0)
	require.NoError(t, err)

	extracted, err := ExtractUserIDFromToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, extracted)
}
