// Package kdf implements the two key derivations the 4-Way Handshake needs:
// PBKDF2-HMAC-SHA1 for turning a passphrase+SSID into a PMK, and PRF-X for
// expanding a PMK into a PTK.
//
// PBKDF2 here is not golang.org/x/crypto/pbkdf2: that implementation has no
// way to yield mid-computation, and on the constrained target this derives
// for this library is meant to run on, the 4096-iteration loop must
// periodically hand control back to the host controller, the watchdog, and
// the receive-queue drain. See Tick.
package kdf

import (
	"encoding/binary"

	"github.com/oyaguma3/go-supplicant/crypto"
)

// PMKLength is the size in bytes of a Pairwise Master Key.
const PMKLength = 32

// PTKLength is the size in bytes of a Pairwise Transient Key.
const PTKLength = 64

// ptkExpansionPrefix is the fixed 22-byte label PRF-X uses when expanding a
// PMK into a PTK (IEEE 802.11i).
var ptkExpansionPrefix = []byte("Pairwise key expansion")

// yieldStride is how many inner PBKDF2 iterations elapse between Tick
// invocations. IEEE 802.11i specifies 4096 iterations per F() call; the
// first iteration is not counted against the stride, so at a stride of 64
// that is 63 ticks per F() call, 126 for the two calls PMK derivation needs.
const yieldStride = 64

// Tick is invoked periodically during DerivePMK so a cooperative,
// single-threaded host can pump host-controller events, clear the
// watchdog, and drain (discard) any frames that arrived mid-derivation.
// A nil Tick is valid and simply means "don't yield" (used by tests).
type Tick func()

// DerivePMK derives a 32-byte PMK from a passphrase and SSID using
// PBKDF2-HMAC-SHA1 with 4096 iterations (IEEE 802.11i / RFC 6070 shape).
// tick may be nil.
func DerivePMK(passphrase string, ssid []byte, tick Tick) [PMKLength]byte {
	var pmk [PMKLength]byte
	f1 := pbkdf2F([]byte(passphrase), ssid, 1, tick)
	f2 := pbkdf2F([]byte(passphrase), ssid, 2, tick)
	copy(pmk[0:20], f1)
	copy(pmk[20:32], f2[0:12])
	return pmk
}

// pbkdf2F computes F(P, S, c=4096, i) = U1 xor U2 xor ... xor Uc.
func pbkdf2F(password, ssid []byte, blockIndex uint32, tick Tick) []byte {
	const iterations = 4096

	seed := make([]byte, len(ssid)+4)
	copy(seed, ssid)
	binary.BigEndian.PutUint32(seed[len(ssid):], blockIndex)

	u := crypto.HMACSHA1(password, seed)
	output := append([]byte(nil), u...)

	for i := 1; i < iterations; i++ {
		u = crypto.HMACSHA1(password, u)
		for j := range output {
			output[j] ^= u[j]
		}
		if tick != nil && i%yieldStride == 0 {
			tick()
		}
	}
	return output
}

// PRF implements IEEE 802.11i PRF-X: successive HMAC-SHA1(K, prefix || 0x00
// || data || counter) blocks concatenated and truncated to length bytes.
// The counter is a single octet, starting at 0, incremented per block.
func PRF(key, prefix, data []byte, length int) []byte {
	input := make([]byte, len(prefix)+1+len(data)+1)
	n := copy(input, prefix)
	input[n] = 0x00
	n++
	n += copy(input[n:], data)
	counterOffset := n

	output := make([]byte, 0, length+20)
	for len(output) < length {
		input[counterOffset] = byte(len(output) / 20)
		output = append(output, crypto.HMACSHA1(key, input)...)
	}
	return output[:length]
}

// orderedPair returns (min, max) of a and b under unsigned byte-wise
// lexicographic comparison, per IEEE 802.11i's PTK derivation input.
func orderedPair(a, b []byte) (lo, hi []byte) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return a, b
		}
		if a[i] > b[i] {
			return b, a
		}
	}
	return a, b
}

// PTKInput builds the 76-byte D block: min(SA,AA) || max(SA,AA) ||
// min(SNonce,ANonce) || max(SNonce,ANonce).
func PTKInput(sa, aa, snonce, anonce []byte) []byte {
	loAddr, hiAddr := orderedPair(sa, aa)
	loNonce, hiNonce := orderedPair(snonce, anonce)

	d := make([]byte, 0, len(loAddr)+len(hiAddr)+len(loNonce)+len(hiNonce))
	d = append(d, loAddr...)
	d = append(d, hiAddr...)
	d = append(d, loNonce...)
	d = append(d, hiNonce...)
	return d
}

// DerivePTK expands pmk into a 64-byte PTK per IEEE 802.11i Section 8.5.1.2,
// given the station/AP addresses and the nonce pair exchanged in message 1.
func DerivePTK(pmk, aa, sa, anonce, snonce []byte) [PTKLength]byte {
	d := PTKInput(sa, aa, snonce, anonce)
	expanded := PRF(pmk, ptkExpansionPrefix, d, PTKLength)

	var ptk [PTKLength]byte
	copy(ptk[:], expanded)
	return ptk
}
