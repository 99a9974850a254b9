package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a SellerDash configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields, including every seed product. It's useful for CI/CD pipelines
or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sellerdash validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addConfigFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	channel := cfg.ChannelURL
	if channel == "" {
		channel = "disabled"
	}

	inStock := 0
	for _, p := range cfg.Products {
		if p.Stock > 0 {
			inStock++
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:      %d\n", cfg.Port)
	fmt.Printf("  Channel:   %s (reconnect: %t)\n", channel, cfg.Reconnect)
	fmt.Printf("  Alert TTL: %s\n", cfg.AlertTTL.Duration())
	fmt.Printf("  Products:  %d (%d in stock)\n", len(cfg.Products), inStock)

	return nil
}
