// Slhttpd-sim runs the SimpleLink HTTP server token adapter on a development
// machine.
//
// The network processor is emulated: pages are served from a directory, GET
// tokens in HTML pages are filled in by registered callbacks, and form fields
// named after POST tokens are delivered to their callbacks. Tokens are
// declared in the YAML configuration file.
//
// Usage:
//
//	slhttpd-sim [command] [flags]
//
// See 'slhttpd-sim --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/slhttpd/internal/ui"
	"github.com/muurk/slhttpd/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderFailure("Error: %v", err))
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "slhttpd-sim",
	Short: "SimpleLink HTTP server emulator",
	Long: `Runs the SimpleLink HTTP server token adapter against an emulated
network processor.

Pages under the configured page directory are served over HTTP. User GET
tokens (__SL_G_Uxx) are replaced with callback output and user POST tokens
(__SL_P_Uxx) are delivered to their callbacks, as on the device.`,
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/slhttpd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config and SLHTTPD_LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slhttpd-sim %s\n", version.Get())
	},
}
