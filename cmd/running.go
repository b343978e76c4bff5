package cmd

import (
	"github.com/mj1618/applaunch/internal/output"
	"github.com/spf13/cobra"
)

var runningCmd = &cobra.Command{
	Use:   "running",
	Short: "List running applications",
	Long: `List running applications that have a bundle path. Multiple processes with the
same bundle path are shown once. Sorted by name.`,
	Args: cobra.NoArgs,
	RunE: runRunning,
}

func init() {
	rootCmd.AddCommand(runningCmd)
}

func runRunning(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	apps, err := a.apps.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	return output.Print(output.RunningResult{Count: len(apps), Apps: apps})
}
