package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Point the pepper at a throwaway location so tests never touch a real
	// pepper file.
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifyPassword("hunter2", hash))
	require.ErrorIs(t, VerifyPassword("hunter3", hash), ErrPasswordMismatch)
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	require.NoError(t, VerifyPassword("same-password", a))
	require.NoError(t, VerifyPassword("same-password", b))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	require.Error(t, VerifyPassword("x", "not-a-phc-hash"))
	require.Error(t, VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
	require.Error(t, VerifyPassword("x", "$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestSignAndUnsignCookieValue(t *testing.T) {
	const secret = "cookie-secret"

	signed := SignCookieValue("some.jwt.value", secret)
	value, ok := UnsignCookieValue(signed, secret)
	require.True(t, ok)
	require.Equal(t, "some.jwt.value", value)

	_, ok = UnsignCookieValue(signed+"tampered", secret)
	require.False(t, ok)

	_, ok = UnsignCookieValue(signed, "other-secret")
	require.False(t, ok)

	_, ok = UnsignCookieValue("no-signature", secret)
	require.False(t, ok)
}

func TestLoadOrGenerateEd25519KeyIsStable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keys", "access.pem")

	first, err := LoadOrGenerateEd25519Key(file)
	require.NoError(t, err)

	second, err := LoadOrGenerateEd25519Key(file)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
