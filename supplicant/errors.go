package supplicant

import "errors"

// Every one of these is a silent-drop condition: no state change, no
// reply transmitted. Input returns the error as a local value purely for
// testing and telemetry labeling -- per the handshake spec, nothing is
// surfaced to the association layer for a single bad frame.
var (
	// ErrMalformedFrame covers length/version/type/descriptor mismatches.
	ErrMalformedFrame = errors.New("supplicant: malformed frame")

	// ErrReplayRejected means the replay counter did not strictly increase.
	ErrReplayRejected = errors.New("supplicant: replay counter not strictly increasing")

	// ErrInappropriateState means the dispatch predicate matched a message
	// type not expected in the current state.
	ErrInappropriateState = errors.New("supplicant: message not expected in current state")

	// ErrMICInvalid means the recomputed MIC disagreed with the frame's MIC.
	ErrMICInvalid = errors.New("supplicant: MIC verification failed")

	// ErrNonceMismatch means the ANonce in message 3 differs from message 1.
	ErrNonceMismatch = errors.New("supplicant: ANonce in message 3 differs from message 1")

	// ErrUnrecognizedMessage means the frame matched none of the dispatch predicates.
	ErrUnrecognizedMessage = errors.New("supplicant: frame matches no known message type")

	// ErrNotWPA means the active cipher is not WPA; EAPOL-Key frames are
	// dropped unconditionally until Init enables WPA.
	ErrNotWPA = errors.New("supplicant: WPA not active")
)
