package eapol

import "encoding/binary"

// ParseKeyFrame decodes an EAPOL-Key frame including its LLC/SNAP prefix.
// It does not validate protocol_version/packet_type/descriptor_type or
// apply any acceptance policy -- that belongs to the supplicant state
// machine's entry filter; this function only validates that the buffer is
// long enough to hold a well-formed frame.
func ParseKeyFrame(data []byte) (*KeyFrame, error) {
	if len(data) < MinFrameLength {
		return nil, ErrFrameTooShort
	}

	f := &KeyFrame{}
	f.ProtocolVersion = data[8]
	f.PacketType = data[9]
	// data[10:12] is body_length; we trust the actual buffer length for
	// key_data sizing rather than requiring it to match exactly, since
	// some APs pad frames.

	body := data[preBodyLength:]
	f.DescriptorType = body[0]
	f.KeyInfo = KeyInfo(binary.BigEndian.Uint16(body[1:3]))
	f.KeyLength = binary.BigEndian.Uint16(body[3:5])
	f.ReplayCounter = binary.BigEndian.Uint64(body[5:13])

	off := 13
	copy(f.Nonce[:], body[off:off+NonceLength])
	off += NonceLength
	copy(f.KeyIV[:], body[off:off+IVLength])
	off += IVLength
	copy(f.KeyRSC[:], body[off:off+RSCLength])
	off += RSCLength
	copy(f.KeyID[:], body[off:off+KeyIDLength])
	off += KeyIDLength
	copy(f.MIC[:], body[off:off+MICLength])
	off += MICLength

	keyDataLength := binary.BigEndian.Uint16(body[off : off+2])
	off += 2

	if off+int(keyDataLength) > len(body) {
		return nil, ErrKeyDataTruncated
	}
	f.KeyData = append([]byte(nil), body[off:off+int(keyDataLength)]...)

	return f, nil
}
