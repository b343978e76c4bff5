package cmd

import (
	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/output"
	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <path or name>",
	Short: "Quit every running instance of an application",
	Long: `Quit every running process that shares the application's bundle identifier.

Each instance is asked to quit. Instances still running after the grace delay
(APPLAUNCH_KILL_GRACE_DELAY, default 2s) are force-quit, and any still running after
the force delay (APPLAUNCH_KILL_FORCE_DELAY, default 1s) receive SIGKILL.

With --no-wait only the first request is sent before the command exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
	killCmd.Flags().Bool("no-wait", false, "Send the quit request and exit without escalating")
}

func runKill(cmd *cobra.Command, args []string) error {
	noWait, _ := cmd.Flags().GetBool("no-wait")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.resolve(args[0])
	if err != nil {
		return err
	}

	esc, outcome := a.mgr.Kill(cmd.Context(), record)
	result := output.KillResult{OK: true, Outcome: string(outcome), Path: record.Path, Done: true}
	if esc != nil {
		result.Identifier = esc.Identifier
		result.PIDs = esc.PIDs
		result.Done = false
		if !noWait {
			if err := esc.Wait(cmd.Context()); err != nil {
				return err
			}
			result.Done = true
		}
		result.Steps = esc.Steps()
	}
	result.OK = outcome != manager.Unresolved
	return output.Print(result)
}
