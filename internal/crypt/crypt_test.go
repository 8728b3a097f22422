package crypt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigsniper/internal/crypt"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestRoundTrip(t *testing.T) {
	c, err := crypt.New(testKey)
	require.NoError(t, err)

	ct, err := c.Encrypt("sniper-key-1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(ct, ":"), 3)

	plain, err := c.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, "sniper-key-1", plain)
}

func TestEncrypt_UniqueIV(t *testing.T) {
	c, err := crypt.New(testKey)
	require.NoError(t, err)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_Tampered(t *testing.T) {
	c, err := crypt.New(testKey)
	require.NoError(t, err)

	ct, err := c.Encrypt("secret")
	require.NoError(t, err)

	parts := strings.Split(ct, ":")
	parts[2] = strings.Repeat("00", len(parts[2])/2)
	_, err = c.Decrypt(strings.Join(parts, ":"))
	assert.Error(t, err)
}

func TestNew_BadKey(t *testing.T) {
	_, err := crypt.New("deadbeef")
	assert.Error(t, err)

	_, err = crypt.New("zz")
	assert.Error(t, err)
}
