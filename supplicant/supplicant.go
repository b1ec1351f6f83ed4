// Package supplicant drives the WPA/WPA2-PSK 4-Way Handshake and Group
// Key Handshake on top of 802.1X EAPOL-Key. It is the supplicant (station)
// side only: it validates inbound frames, derives and installs key
// material, and emits the corresponding replies, but it never initiates
// the handshake and never plays the authenticator (AP) role.
//
// A single *Supplicant value holds all per-association state -- PMK, PTK,
// GTK, nonces, replay counter, and the {MSG1,MSG3,GROUP,RUN} state -- so
// file-scope globals in the original embedded implementation become
// fields threaded through one owned value.
package supplicant

import (
	"fmt"
	"log/slog"

	"github.com/oyaguma3/go-supplicant/crypto"
	"github.com/oyaguma3/go-supplicant/eapol"
	"github.com/oyaguma3/go-supplicant/kdf"
)

// MetricsSink receives handshake telemetry. A nil sink is replaced with a
// no-op implementation; internal/telemetry.Collector satisfies this
// interface without supplicant needing to import prometheus directly.
type MetricsSink interface {
	FrameAccepted(bssid string)
	FrameDropped(bssid, reason string)
	StateChanged(bssid string, state State)
}

type noopMetrics struct{}

func (noopMetrics) FrameAccepted(string)        {}
func (noopMetrics) FrameDropped(string, string) {}
func (noopMetrics) StateChanged(string, State)  {}

// Supplicant is the single owned value driving one station/AP association.
type Supplicant struct {
	radio        Radio
	keyInstaller KeyInstaller
	entropy      Entropy
	logger       *slog.Logger
	metrics      MetricsSink

	wpaActive bool
	aa, sa    [6]byte
	bssid     string // string form of aa, for logging/metrics labels

	pmk            [32]byte
	anonce, snonce [32]byte
	ptk            [64]byte
	replay         replayGuard
	state          State
}

// NewSupplicant constructs a Supplicant bound to the given collaborators.
// logger and metrics may be nil.
func NewSupplicant(radio Radio, keyInstaller KeyInstaller, entropy Entropy, logger *slog.Logger, metrics MetricsSink) *Supplicant {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Supplicant{
		radio:        radio,
		keyInstaller: keyInstaller,
		entropy:      entropy,
		logger:       logger,
		metrics:      metrics,
		state:        StateMsg1,
	}
}

// Init seeds the PMK and resets the handshake to its initial state for a
// new association with the station address sa and AP address aa. tick, if
// non-nil, is forwarded to PBKDF2 when input is a PassphrasePMK.
func (s *Supplicant) Init(input PMKInput, aa, sa [6]byte, tick kdf.Tick) {
	s.pmk = input.derive(tick)
	s.aa = aa
	s.sa = sa
	s.bssid = macString(aa)
	s.replay.reset()
	s.anonce = [32]byte{}
	s.snonce = [32]byte{}
	s.ptk = [64]byte{}
	s.wpaActive = true
	s.setState(StateMsg1)
}

// Deassociate resets the handshake to MSG1, clears replay state, and
// invalidates any installed keys via the driver.
func (s *Supplicant) Deassociate() error {
	s.wpaActive = false
	s.replay.reset()
	s.setState(StateMsg1)
	return s.keyInstaller.Invalidate()
}

// State returns the current handshake state. The association layer polls
// this (or observes it after each Input call) to learn when it reaches
// StateRun.
func (s *Supplicant) State() State {
	return s.state
}

func (s *Supplicant) setState(next State) {
	s.state = next
	s.metrics.StateChanged(s.bssid, next)
}

func (s *Supplicant) kck() []byte { return s.ptk[0:16] }
func (s *Supplicant) kek() []byte { return s.ptk[16:32] }
func (s *Supplicant) tk() [16]byte {
	var tk [16]byte
	copy(tk[:], s.ptk[32:48])
	return tk
}
func (s *Supplicant) micTx() [8]byte {
	var m [8]byte
	copy(m[:], s.ptk[48:56])
	return m
}
func (s *Supplicant) micRx() [8]byte {
	var m [8]byte
	copy(m[:], s.ptk[56:64])
	return m
}

// drop logs and counts a dropped frame and returns its reason as an error.
// Per the handshake spec every failure is a silent, local return: no
// reply is transmitted and no state changes.
func (s *Supplicant) drop(reason string, err error) error {
	s.metrics.FrameDropped(s.bssid, reason)
	s.logger.Debug("dropping EAPOL-Key frame", slog.String("reason", reason), slog.Any("error", err))
	return err
}

// Input feeds one inbound 802.11 data frame carrying EAPOL (LLC prefix
// already present) into the handshake. A non-nil return indicates the
// frame was dropped; it is intended for tests and telemetry, not for the
// association layer to act on -- per the spec, nothing is surfaced to the
// user for a single bad frame.
func (s *Supplicant) Input(frame []byte) error {
	if !s.wpaActive {
		return s.drop("not_wpa", ErrNotWPA)
	}

	kf, err := eapol.ParseKeyFrame(frame)
	if err != nil {
		return s.drop("malformed", fmt.Errorf("%w: %v", ErrMalformedFrame, err))
	}
	if (kf.ProtocolVersion != eapol.ProtocolVersion1 && kf.ProtocolVersion != eapol.ProtocolVersion2) ||
		kf.PacketType != eapol.PacketTypeKey ||
		kf.DescriptorType != eapol.DescriptorTypeWPA {
		return s.drop("malformed", ErrMalformedFrame)
	}

	if !s.replay.check(kf.ReplayCounter) {
		return s.drop("replay", ErrReplayRejected)
	}
	s.replay.accept(kf.ReplayCounter)

	switch {
	case isMsg1(kf.KeyInfo):
		return s.handleMsg1(kf)
	case isMsg3(kf.KeyInfo):
		return s.handleMsg3(kf)
	case isGroupMsg1(kf.KeyInfo):
		return s.handleGroupMsg1(kf)
	default:
		return s.drop("unrecognized", ErrUnrecognizedMessage)
	}
}

// Dispatch predicates, IEEE 802.11i 4-way/group message shapes.

func isMsg1(ki eapol.KeyInfo) bool {
	return ki.Pairwise() && ki.KeyIndex() == 0 && ki.Ack() && !ki.MIC() &&
		!ki.Secure() && !ki.Error() && !ki.Request()
}

func isMsg3(ki eapol.KeyInfo) bool {
	return ki.Pairwise() && ki.KeyIndex() == 0 && ki.Ack() && ki.MIC() &&
		!ki.Secure() && !ki.Error() && !ki.Request()
}

func isGroupMsg1(ki eapol.KeyInfo) bool {
	return !ki.Pairwise() && ki.KeyIndex() != 0 && ki.Ack() && ki.MIC() &&
		ki.Secure() && !ki.Error() && !ki.Request()
}

func (s *Supplicant) handleMsg1(kf *eapol.KeyFrame) error {
	if s.state != StateMsg1 && s.state != StateMsg3 {
		return s.drop("inappropriate_state", ErrInappropriateState)
	}

	s.anonce = kf.Nonce
	s.snonce = s.entropy.SNonce()
	s.ptk = kdf.DerivePTK(s.pmk[:], s.aa[:], s.sa[:], s.anonce[:], s.snonce[:])

	reply := &eapol.KeyFrame{
		ProtocolVersion: eapol.ProtocolVersion1,
		PacketType:      eapol.PacketTypeKey,
		DescriptorType:  eapol.DescriptorTypeWPA,
		KeyInfo:         eapol.NewKeyInfo(eapol.KeyDescVersion1, true, 0, false, false, true, false),
		ReplayCounter:   kf.ReplayCounter,
		Nonce:           s.snonce,
		KeyData:         append([]byte(nil), eapol.RSNWPAIE...),
	}
	reply.SetMIC(s.kck())

	if err := s.radio.Send(reply.Marshal(), s.aa, true, true); err != nil {
		s.logger.Warn("failed to send message 2", slog.Any("error", err))
	}

	if err := s.keyInstaller.InstallPairwise(s.tk(), s.micTx(), s.micRx()); err != nil {
		s.logger.Warn("failed to install pairwise key", slog.Any("error", err))
	}

	s.metrics.FrameAccepted(s.bssid)
	s.setState(StateMsg3)
	return nil
}

func (s *Supplicant) handleMsg3(kf *eapol.KeyFrame) error {
	if s.state != StateMsg3 && s.state != StateGroup {
		return s.drop("inappropriate_state", ErrInappropriateState)
	}
	if !kf.KeyInfo.Pairwise() {
		return s.drop("inappropriate_state", ErrInappropriateState)
	}
	if kf.Nonce != s.anonce {
		return s.drop("nonce_mismatch", ErrNonceMismatch)
	}
	if !kf.VerifyMIC(s.kck()) {
		return s.drop("mic_invalid", ErrMICInvalid)
	}

	reply := &eapol.KeyFrame{
		ProtocolVersion: eapol.ProtocolVersion1,
		PacketType:      eapol.PacketTypeKey,
		DescriptorType:  eapol.DescriptorTypeWPA,
		KeyInfo:         eapol.NewKeyInfo(eapol.KeyDescVersion1, true, 0, false, false, true, false),
		ReplayCounter:   kf.ReplayCounter,
		KeyLength:       kf.KeyLength,
	}
	reply.SetMIC(s.kck())

	if err := s.radio.Send(reply.Marshal(), s.aa, true, true); err != nil {
		s.logger.Warn("failed to send message 4", slog.Any("error", err))
	}

	s.metrics.FrameAccepted(s.bssid)
	s.setState(StateGroup)
	return nil
}

func (s *Supplicant) handleGroupMsg1(kf *eapol.KeyFrame) error {
	if s.state != StateGroup && s.state != StateRun {
		return s.drop("inappropriate_state", ErrInappropriateState)
	}
	if !kf.VerifyMIC(s.kck()) {
		return s.drop("mic_invalid", ErrMICInvalid)
	}

	reply := &eapol.KeyFrame{
		ProtocolVersion: eapol.ProtocolVersion1,
		PacketType:      eapol.PacketTypeKey,
		DescriptorType:  eapol.DescriptorTypeWPA,
		KeyInfo:         eapol.NewKeyInfo(eapol.KeyDescVersion1, false, kf.KeyInfo.KeyIndex(), false, false, true, true),
		ReplayCounter:   kf.ReplayCounter,
		KeyLength:       kf.KeyLength,
	}
	reply.SetMIC(s.kck())

	if err := s.radio.Send(reply.Marshal(), s.aa, true, true); err != nil {
		s.logger.Warn("failed to send group response", slog.Any("error", err))
	}

	gtk := decryptGTK(kf.KeyIV, s.kek(), kf.KeyData)

	var gtkKey [16]byte
	copy(gtkKey[:], gtk[0:16])
	var txMIC, rxMIC [8]byte
	copy(rxMIC[:], gtk[16:24])
	copy(txMIC[:], gtk[24:32])

	if err := s.keyInstaller.InstallGroup(kf.KeyInfo.KeyIndex(), gtkKey, txMIC, rxMIC); err != nil {
		s.logger.Warn("failed to install group key", slog.Any("error", err))
	}

	s.metrics.FrameAccepted(s.bssid)
	s.setState(StateRun)
	return nil
}

// decryptGTK unwraps the GTK material carried in a group message's
// key_data using RC4 keyed with IV||KEK, discarding the first 256
// keystream bytes as WPA's group-key encapsulation mandates.
func decryptGTK(iv [eapol.IVLength]byte, kek, keyData []byte) []byte {
	key := make([]byte, 0, eapol.IVLength+16)
	key = append(key, iv[:]...)
	key = append(key, kek...)

	c, err := crypto.NewRC4Cipher(key)
	if err != nil {
		// key length is fixed at 32 bytes (16+16); rc4.NewCipher only
		// fails for keys outside [1,256] bytes, which cannot happen here.
		panic(err)
	}
	c.Discard(256)
	return c.Cipher(keyData)
}

func macString(mac [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
