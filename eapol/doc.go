/*
Package eapol encodes and decodes EAPOL-Key frames as specified by IEEE
802.11i, layered under an 802.2 LLC/SNAP header.

It handles exact byte layout (no compiler-dependent bitfields), MIC
computation with the MIC field zeroed per the handshake's signing
convention, and the fixed WPA RSN Information Element used in message 2.

# Usage

To parse an inbound frame:

	frame, err := eapol.ParseKeyFrame(data)
	if err != nil {
		// drop
	}

To build and sign an outbound frame:

	frame := &eapol.KeyFrame{ ... }
	frame.SetMIC(kck)
	wire := frame.Marshal()

# References

  - IEEE 802.11i-2004, Section 8.5 (4-Way Handshake, Key Descriptor)
  - RFC 8137 (EAPOL-Key descriptor version assignments)
*/
package eapol
