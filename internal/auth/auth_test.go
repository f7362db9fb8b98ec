package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)

	assert.True(t, CheckPassword(hashed, "correct horse"))
	assert.False(t, CheckPassword(hashed, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("507f1f77bcf86cd799439011", "admin")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenVerifyFailures(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Signed with a different secret.
	otherTM := NewTokenManager("other-secret", time.Hour)
	token, err := otherTM.Issue("507f1f77bcf86cd799439011", "member")
	require.NoError(t, err)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired.
	expiredTM := NewTokenManager("test-secret", -time.Minute)
	token, err = expiredTM.Issue("507f1f77bcf86cd799439011", "member")
	require.NoError(t, err)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
