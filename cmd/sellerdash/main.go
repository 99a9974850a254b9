// Package main is the entry point for the sellerdash CLI.
//
// SellerDash can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	sellerdash serve -c config.yaml    # Start the dashboard
//	sellerdash validate -c config.yaml # Validate configuration
//	sellerdash version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sellerdash",
	Short: "A small seller dashboard with a live notification feed",
	Long: `SellerDash is a small dashboard for an online seller.

It lists products with add and delete forms, shows notifications pushed
over a WebSocket as they arrive, and refreshes the page in place with
Server-Sent Events.

Quick start:
  1. Create a config file (sellerdash.yaml)
  2. Run: sellerdash serve -c sellerdash.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  channel_url: ws://localhost:9998/notifications
  products:
    - name: Widget
      description: A widget
      price: 9.99
      stock: 5
      image: https://example.com/widget.png`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this sellerdash binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sellerdash %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
