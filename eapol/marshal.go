package eapol

import (
	"encoding/binary"
)

// Marshal serializes the frame to its exact wire form: LLC/SNAP, EAPOL
// header, and key body, in that order. The resulting slice is always
// preBodyLength+headerLength+len(KeyData) bytes.
func (f *KeyFrame) Marshal() []byte {
	bodyLen := headerLength + len(f.KeyData)
	buf := make([]byte, preBodyLength+bodyLen)

	copy(buf[0:8], LLCSNAP[:])
	buf[8] = f.ProtocolVersion
	buf[9] = f.PacketType
	binary.BigEndian.PutUint16(buf[10:12], uint16(bodyLen))

	body := buf[preBodyLength:]
	body[0] = f.DescriptorType
	binary.BigEndian.PutUint16(body[1:3], uint16(f.KeyInfo))
	binary.BigEndian.PutUint16(body[3:5], f.KeyLength)
	binary.BigEndian.PutUint64(body[5:13], f.ReplayCounter)
	copy(body[13:13+NonceLength], f.Nonce[:])
	off := 13 + NonceLength
	copy(body[off:off+IVLength], f.KeyIV[:])
	off += IVLength
	copy(body[off:off+RSCLength], f.KeyRSC[:])
	off += RSCLength
	copy(body[off:off+KeyIDLength], f.KeyID[:])
	off += KeyIDLength
	copy(body[off:off+MICLength], f.MIC[:])
	off += MICLength
	binary.BigEndian.PutUint16(body[off:off+2], uint16(len(f.KeyData)))
	off += 2
	copy(body[off:], f.KeyData)

	return buf
}

// ZeroedMIC returns a copy of the frame with the MIC field zeroed, for
// MIC computation: invariant 3 of the handshake spec requires the MIC to
// be computed with the field cleared.
func (f *KeyFrame) ZeroedMIC() *KeyFrame {
	cp := *f
	cp.MIC = [MICLength]byte{}
	return &cp
}

// EAPOLBody marshals the frame and returns only the portion from
// protocol_version onward (i.e. without the LLC/SNAP prefix), which is
// what the MIC is computed over.
func (f *KeyFrame) EAPOLBody() []byte {
	return f.Marshal()[8:]
}
