// Package eapol encodes and decodes EAPOL-Key frames exactly as they
// appear on the wire, including the 802.2 LLC/SNAP prefix the 4-Way
// Handshake is layered under. Every fixed-length field uses the exact
// byte offsets IEEE 802.11i specifies; nothing here relies on compiler
// struct layout or bitfields (see the KeyInfo type).
package eapol

import "errors"

// Wire constants (IEEE 802.11i / RFC 8137).
var (
	// LLCSNAP is the 8-byte 802.2 LLC/SNAP header EAPOL frames ride under.
	LLCSNAP = [8]byte{0xaa, 0xaa, 0x03, 0x00, 0x00, 0x00, 0x88, 0x8e}

	// RSNWPAIE is the fixed 24-byte WPA RSN Information Element sent in
	// message 2 of the 4-Way Handshake (WPA1, TKIP-only cipher suite).
	RSNWPAIE = []byte{
		0xdd, 0x16, 0x00, 0x50, 0xf2, 0x01, 0x01, 0x00,
		0x00, 0x50, 0xf2, 0x02, 0x01, 0x00, 0x00, 0x50,
		0xf2, 0x02, 0x01, 0x00, 0x00, 0x50, 0xf2, 0x02,
	}
)

// Protocol/frame type constants.
const (
	ProtocolVersion1 uint8 = 1
	ProtocolVersion2 uint8 = 2

	PacketTypeKey uint8 = 3

	DescriptorTypeWPA uint8 = 254
)

// Field lengths, in bytes.
const (
	NonceLength = 32
	IVLength    = 16
	RSCLength   = 8
	KeyIDLength = 8
	MICLength   = 16
)

// headerLength is the size in bytes of the EAPOL-Key body header, i.e.
// everything between body_length and key_data (offsets 12..107 in the
// full frame, or 0..95 relative to the body).
const headerLength = 1 + 2 + 2 + 8 + NonceLength + IVLength + RSCLength + KeyIDLength + MICLength + 2

// llcHeaderLength + eapolHeaderLength (protocol_version, packet_type,
// body_length) = bytes before the key body starts.
const preBodyLength = 8 + 1 + 1 + 2

// MinFrameLength is the minimum byte length of a complete EAPOL-Key frame
// (LLC/SNAP + EAPOL header + key body header, no key data).
const MinFrameLength = preBodyLength + headerLength

var (
	// ErrFrameTooShort means the buffer is shorter than a full key-frame header.
	ErrFrameTooShort = errors.New("eapol: frame shorter than key-frame header")
	// ErrKeyDataTruncated means the declared key_data_length overruns the buffer.
	ErrKeyDataTruncated = errors.New("eapol: key data truncated")
)

// KeyFrame is the parsed/to-be-serialized form of an EAPOL-Key frame,
// from protocol_version through key_data (§4.C of the handshake spec).
type KeyFrame struct {
	ProtocolVersion uint8
	PacketType      uint8
	DescriptorType  uint8
	KeyInfo         KeyInfo
	KeyLength       uint16
	ReplayCounter   uint64
	Nonce           [NonceLength]byte
	KeyIV           [IVLength]byte
	KeyRSC          [RSCLength]byte
	KeyID           [KeyIDLength]byte
	MIC             [MICLength]byte
	KeyData         []byte
}
