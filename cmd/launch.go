package cmd

import (
	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/output"
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch <path or name>",
	Short: "Open an application and record it in history",
	Long: `Open an application by bundle path or by name and record the launch.

A name is looked up in history first, then in the catalog. A path not seen before
becomes a new history entry at the top; a path already in history keeps its
position and gets a new launch time.

Examples:
  applaunch launch Safari
  applaunch launch /Applications/Utilities/Terminal.app`,
	Args: cobra.ExactArgs(1),
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.resolve(args[0])
	if err != nil {
		return err
	}
	outcome, openErr := a.mgr.Launch(cmd.Context(), record)

	result := output.ActionResult{OK: openErr == nil, Action: "launch", Outcome: string(outcome), Path: record.Path}
	history := a.mgr.History()
	if i := model.IndexByPath(history, record.Path); i >= 0 {
		result.ID = history[i].ID
	}
	if openErr != nil {
		result.Error = openErr.Error()
	}
	if err := output.Print(result); err != nil {
		return err
	}
	return openErr
}
