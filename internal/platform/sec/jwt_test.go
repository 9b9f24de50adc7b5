package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/platform/sec"
)

// writeKeys stores a fresh RSA key pair as PEM files and returns their paths.
func writeKeys(t *testing.T) (privatePath, publicPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath = filepath.Join(dir, "private.pem")
	publicPath = filepath.Join(dir, "public.pem")

	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	}), 0o600))
	return privatePath, publicPath
}

/*
TestTokenService_RoundTrip signs and verifies a curator token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	privatePath, publicPath := writeKeys(t)
	service, err := sec.NewTokenService(privatePath, publicPath, "lineage.app")
	require.NoError(t, err)
	require.True(t, service.CanSign())

	token, err := service.GenerateAccessToken("user-7", "ada", sec.RoleCurator, time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, string(sec.RoleCurator), claims.Role)
}

/*
TestTokenService_Rejects covers expiry, foreign issuers and garbage.
*/
func TestTokenService_Rejects(t *testing.T) {
	privatePath, publicPath := writeKeys(t)
	service, err := sec.NewTokenService(privatePath, publicPath, "lineage.app")
	require.NoError(t, err)
	foreign, err := sec.NewTokenService(privatePath, publicPath, "elsewhere.example")
	require.NoError(t, err)

	expired, err := service.GenerateAccessToken("user-7", "ada", sec.RoleMember, -time.Minute)
	require.NoError(t, err)
	otherIssuer, err := foreign.GenerateAccessToken("user-7", "ada", sec.RoleMember, time.Minute)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"other issuer": otherIssuer,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.VerifyToken(token)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_VerifyOnly(t *testing.T) {
	_, publicPath := writeKeys(t)
	service, err := sec.NewTokenService("", publicPath, "lineage.app")
	require.NoError(t, err)

	assert.False(t, service.CanSign())
	_, err = service.GenerateAccessToken("user-7", "ada", sec.RoleMember, time.Minute)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleCurator))
	assert.True(t, sec.RoleCurator.AtLeast(sec.RoleCurator))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleCurator))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.RoleMember))
}
