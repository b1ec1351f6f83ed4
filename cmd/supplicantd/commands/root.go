// Package commands implements the supplicantd CLI using cobra.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "supplicantd",
	Short: "WPA/WPA2-PSK 4-Way Handshake supplicant",
	Long:  "supplicantd drives the 4-Way Handshake and Group Key Handshake over EAPOL-Key for one station association.",

	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (YAML)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
