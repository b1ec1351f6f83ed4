package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func h(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestHMACSHA1Length(t *testing.T) {
	out := HMACSHA1([]byte("key"), []byte("msg"))
	assert.Len(t, out, 20)
}

func TestHMACMD5Length(t *testing.T) {
	out := HMACMD5([]byte("key"), []byte("msg"))
	assert.Len(t, out, 16)
}

func TestHMACSHA1RFC2202Vector(t *testing.T) {
	// RFC 2202 Test Case 1.
	key := h(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	msg := []byte("Hi There")
	want := h(t, "b617318655057264e28bc0b6fb378c8ef146be00")

	assert.Equal(t, want, HMACSHA1(key, msg))
}

func TestRC4DiscardChangesKeystream(t *testing.T) {
	key := make([]byte, 32)
	plaintext := []byte("WPA group key material..")

	c1, err := NewRC4Cipher(key)
	require.NoError(t, err)
	undiscarded := c1.Cipher(plaintext)

	c2, err := NewRC4Cipher(key)
	require.NoError(t, err)
	c2.Discard(256)
	discarded := c2.Cipher(plaintext)

	assert.NotEqual(t, undiscarded, discarded, "discarding the first 256 bytes must change the keystream used for payload")
}

func TestRC4RoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	plaintext := []byte("the group temporal key")

	enc, err := NewRC4Cipher(key)
	require.NoError(t, err)
	enc.Discard(256)
	ciphertext := enc.Cipher(plaintext)

	dec, err := NewRC4Cipher(key)
	require.NoError(t, err)
	dec.Discard(256)
	roundTripped := dec.Cipher(ciphertext)

	assert.Equal(t, plaintext, roundTripped)
}
