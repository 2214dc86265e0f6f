package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/auth"
)

func TestHashPassword_RoundTrips(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, auth.CheckPassword("correct horse battery staple", hash))
	require.False(t, auth.CheckPassword("wrong password", hash))
}

func TestTokenManager_RoundTrips(t *testing.T) {
	mgr := auth.NewManager("test-signing-key", time.Minute)

	token, err := mgr.GenerateToken("op-1", "admin")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "op-1", claims.OperatorID)
	require.Equal(t, "admin", claims.Role)
}

func TestTokenManager_RejectsWrongSigningKey(t *testing.T) {
	mgr1 := auth.NewManager("key-one", time.Minute)
	mgr2 := auth.NewManager("key-two", time.Minute)

	token, err := mgr1.GenerateToken("op-1", "admin")
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	require.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	mgr := auth.NewManager("test-signing-key", -time.Minute)

	token, err := mgr.GenerateToken("op-1", "admin")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	require.Error(t, err)
}
