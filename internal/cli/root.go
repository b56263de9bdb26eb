// Package cli provides the command-line interface for the funko catalog.
package cli

import (
	"context"
	"fmt"
	"os"

	"funko-catalog-api/internal/app"
	"funko-catalog-api/internal/config"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "funko-catalog",
		Short:         "Funko catalog service",
		Long:          `A cached funko catalog served over HTTP, with CSV import and JSON backups.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a config file (default ./config.yaml)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "funko-catalog %s\n", version)
		},
	}

	rootCmd.AddCommand(
		versionCmd,
		NewServeCmd(),
		NewImportCmd(),
		NewBackupCmd(),
		NewRestoreCmd(),
		NewDemoCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openApp loads configuration from the --config flag and builds the application.
// The returned context carries the application logger.
func openApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a.Context(cmd.Context()), a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to close application")
	}
}
