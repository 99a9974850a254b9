package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/jpalmerr/sellerdash/config"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the flags shared by serve and validate.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	cmd.Flags().String("env-file", "", "dotenv file loaded before ${VAR} expansion")
	_ = cmd.MarkFlagRequired("config")
}

// loadConfig loads the optional env file, then the config file. Variables
// already set in the environment win over the env file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(configFile)
}
