package eapol

// KeyInfo is the 16-bit key_info field transmitted big-endian. It is
// modeled as a plain integer with named bit accessors rather than a
// compiler bitfield, since bitfield layout is not portable across
// toolchains (see the handshake spec's design notes).
type KeyInfo uint16

// Bit positions and masks, bit 0 = LSB, as transmitted (big-endian on the
// wire, native order once decoded into a uint16).
const (
	keyInfoDescVerMask  KeyInfo = 0x0007 // bits 0-2
	keyInfoKeyType      KeyInfo = 1 << 3
	keyInfoKeyIndexMask KeyInfo = 0x0030 // bits 4-5
	keyInfoInstall      KeyInfo = 1 << 6
	keyInfoKeyAck       KeyInfo = 1 << 7
	keyInfoKeyMIC       KeyInfo = 1 << 8
	keyInfoSecure       KeyInfo = 1 << 9
	keyInfoError        KeyInfo = 1 << 10
	keyInfoRequest      KeyInfo = 1 << 11
	keyInfoEncryptedKD  KeyInfo = 1 << 12
)

// KeyDescVersion1 selects HMAC-MD5 + RC4 (TKIP), the only cipher this
// supplicant installs.
const KeyDescVersion1 = 1

// NewKeyInfo builds a KeyInfo word from its named fields.
func NewKeyInfo(descVer uint8, pairwise bool, keyIndex uint8, install, ack, mic, secure bool) KeyInfo {
	var k KeyInfo
	k |= KeyInfo(descVer) & keyInfoDescVerMask
	if pairwise {
		k |= keyInfoKeyType
	}
	k |= (KeyInfo(keyIndex) << 4) & keyInfoKeyIndexMask
	if install {
		k |= keyInfoInstall
	}
	if ack {
		k |= keyInfoKeyAck
	}
	if mic {
		k |= keyInfoKeyMIC
	}
	if secure {
		k |= keyInfoSecure
	}
	return k
}

// DescriptorVersion returns the key_desc_ver field (bits 0-2).
func (k KeyInfo) DescriptorVersion() uint8 { return uint8(k & keyInfoDescVerMask) }

// Pairwise reports whether key_type indicates a pairwise (vs. group) message.
func (k KeyInfo) Pairwise() bool { return k&keyInfoKeyType != 0 }

// KeyIndex returns the key_index field (bits 4-5).
func (k KeyInfo) KeyIndex() uint8 { return uint8((k & keyInfoKeyIndexMask) >> 4) }

// Install reports the install bit.
func (k KeyInfo) Install() bool { return k&keyInfoInstall != 0 }

// Ack reports the key_ack bit.
func (k KeyInfo) Ack() bool { return k&keyInfoKeyAck != 0 }

// MIC reports the key_mic bit (whether the frame carries a valid MIC field).
func (k KeyInfo) MIC() bool { return k&keyInfoKeyMIC != 0 }

// Secure reports the secure bit.
func (k KeyInfo) Secure() bool { return k&keyInfoSecure != 0 }

// Error reports the error bit.
func (k KeyInfo) Error() bool { return k&keyInfoError != 0 }

// Request reports the request bit.
func (k KeyInfo) Request() bool { return k&keyInfoRequest != 0 }

// EncryptedKeyData reports the EKD bit.
func (k KeyInfo) EncryptedKeyData() bool { return k&keyInfoEncryptedKD != 0 }
