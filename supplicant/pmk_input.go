package supplicant

import "github.com/oyaguma3/go-supplicant/kdf"

// PMKInput makes the PMK source explicit at configuration time instead of
// silently reinterpreting whatever bytes are configured, per the
// handshake spec's design-note resolution of this exact open question.
type PMKInput interface {
	derive(tick kdf.Tick) [32]byte
}

// PassphrasePMK derives the PMK from a passphrase and SSID via PBKDF2.
type PassphrasePMK struct {
	Passphrase string
	SSID       []byte
}

func (p PassphrasePMK) derive(tick kdf.Tick) [32]byte {
	return kdf.DerivePMK(p.Passphrase, p.SSID, tick)
}

// RawPMK supplies a pre-derived 32-byte PMK directly, skipping PBKDF2.
type RawPMK struct {
	PMK [32]byte
}

func (r RawPMK) derive(kdf.Tick) [32]byte {
	return r.PMK
}
