package supplicant

// Radio is the narrow transmit interface the state machine drives; frame
// send/receive, fragmentation, and association itself are out of scope
// for this package and live in the MAC-layer implementation behind Radio.
type Radio interface {
	// Send transmits an already-encoded EAPOL frame to dst. encrypted and
	// eapolFrame mirror the flags the MAC layer attaches to the transmit
	// descriptor; the 4-way and group handshakes always pass true for both.
	Send(frame []byte, dst [6]byte, encrypted, eapolFrame bool) error
}

// KeyInstaller is the narrow interface onto the radio driver's cipher
// engine. Every method is idempotent per key index, per the handshake
// spec's data model invariant that derived keys are never exposed --
// only handles are installed.
type KeyInstaller interface {
	// InstallPairwise installs tk as the TKIP pairwise data key and
	// txMIC/rxMIC as the TKIP Michael MIC keys, zeroing the TKIP TSC.
	InstallPairwise(tk [16]byte, txMIC, rxMIC [8]byte) error

	// InstallGroup installs a TKIP group key at the given key index.
	InstallGroup(index uint8, gtk [16]byte, txMIC, rxMIC [8]byte) error

	// Invalidate tears down all installed keys, e.g. on deassociation.
	Invalidate() error
}

// Entropy is the CSPRNG the supplicant draws SNonce from. It must never
// be reseeded between calls, and callers must not reuse an SNonce across
// resets of the same PMK if the underlying PRNG is deterministic.
type Entropy interface {
	SNonce() [32]byte
}
