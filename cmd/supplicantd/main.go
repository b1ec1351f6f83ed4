// Command supplicantd is a demonstration host for the 4-Way Handshake
// supplicant: it loads configuration, derives the PMK, wires telemetry and
// logging, and drives the state machine against a loopback Radio so the
// handshake logic can be exercised without real 802.11 hardware. A
// production deployment replaces the loopback Radio/KeyInstaller/Entropy
// adapters in cmd/supplicantd/commands/run.go with drivers for an actual
// wireless NIC.
package main

import (
	"os"

	"github.com/oyaguma3/go-supplicant/cmd/supplicantd/commands"
)

func main() {
	os.Exit(commands.Execute())
}
