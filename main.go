package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"profile_service/domain"
	"profile_service/startup"
	"profile_service/startup/config"
)

var rootCmd = &cobra.Command{
	Use:   "profile_service",
	Short: "Workplace accommodation profile service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewConfig()
		logger, err := startup.NewLogger(cfg.LogFile)
		if err != nil {
			return err
		}
		server := startup.NewServer(cfg, logger)
		return server.Start()
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the accommodation catalog as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(domain.Catalog())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
