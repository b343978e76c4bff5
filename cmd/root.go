package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/applaunch/internal/output"
	"github.com/mj1618/applaunch/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "applaunch",
	Short: "List, launch and track macOS applications",
	Long: `A launcher core for macOS: lists installed and running applications, launches them,
and keeps a persisted, reorderable launch history with favorites and a kill action.

Configuration is read from APPLAUNCH_* environment variables.
Logs go to stderr; command output goes to stdout.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("store", "", "Settings store backend: file, sqlite (overrides APPLAUNCH_STORE_BACKEND)")
	rootCmd.PersistentFlags().String("store-path", "", "Settings store location (overrides APPLAUNCH_STORE_PATH)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Read the root persistent flag directly so subcommand flags cannot shadow it.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty
		return nil
	}
}
