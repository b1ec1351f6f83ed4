package eapol

import (
	"crypto/subtle"

	"github.com/oyaguma3/go-supplicant/crypto"
)

// ComputeMIC computes HMAC-MD5(kck, body) over the frame's EAPOL body
// (protocol_version onward) with the MIC field zeroed, per invariant 3 of
// the handshake spec.
func (f *KeyFrame) ComputeMIC(kck []byte) [MICLength]byte {
	body := f.ZeroedMIC().EAPOLBody()
	mac := crypto.HMACMD5(kck, body)

	var mic [MICLength]byte
	copy(mic[:], mac)
	return mic
}

// SetMIC computes and stores the MIC in place.
func (f *KeyFrame) SetMIC(kck []byte) {
	f.MIC = f.ComputeMIC(kck)
}

// VerifyMIC reports whether the frame's stored MIC matches the MIC
// recomputed over the zeroed-MIC frame. Comparison is constant-time.
func (f *KeyFrame) VerifyMIC(kck []byte) bool {
	want := f.ComputeMIC(kck)
	return subtle.ConstantTimeCompare(f.MIC[:], want[:]) == 1
}
