// Package crypto provides thin, typed wrappers over the primitives the
// 4-Way Handshake needs: HMAC-SHA1 (PBKDF2/PRF-X), HMAC-MD5 (MIC), and
// RC4 with the leading-keystream discard WPA mandates for GTK unwrap.
//
// Nothing here is a reimplementation of a primitive; each function defers
// to the standard library and only fixes the key/output shape the
// handshake expects.
package crypto

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha1"
)

// HMACSHA1 returns HMAC-SHA1(key, msg), always 20 bytes.
func HMACSHA1(key, msg []byte) []byte {
	h := hmac.New(sha1.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// HMACMD5 returns HMAC-MD5(key, msg), always 16 bytes. Used for the EAPOL
// Key MIC (key descriptor version 1 / TKIP).
func HMACMD5(key, msg []byte) []byte {
	h := hmac.New(md5.New, key)
	h.Write(msg)
	return h.Sum(nil)
}

// RC4Cipher wraps crypto/rc4 and exposes the keystream-discard step WPA's
// group-key encapsulation mandates before the payload is decrypted.
type RC4Cipher struct {
	c *rc4.Cipher
}

// NewRC4Cipher initializes RC4 with the given key (IV || KEK for GTK unwrap).
func NewRC4Cipher(key []byte) (*RC4Cipher, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &RC4Cipher{c: c}, nil
}

// Discard advances the keystream by n bytes without producing output.
// The group-key handshake requires discarding the first 256 bytes.
func (r *RC4Cipher) Discard(n int) {
	scratch := make([]byte, n)
	r.c.XORKeyStream(scratch, scratch)
}

// Cipher XORs src with the keystream into a freshly allocated slice.
// Since RC4 is symmetric this both encrypts and decrypts.
func (r *RC4Cipher) Cipher(src []byte) []byte {
	dst := make([]byte, len(src))
	r.c.XORKeyStream(dst, src)
	return dst
}
