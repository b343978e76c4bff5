package cmd

import (
	"github.com/mj1618/applaunch/internal/manager"
	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/output"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and edit the launch history",
	Long: `Show the launch history as displayed: in manual mode in stored order, in recent
mode by last launch (never-launched entries last).

--sort and --favorites change the persisted view settings before listing. Holding
the filter key (command by default) while running the command lists favorites only.
Each entry reports whether an app with the same bundle identifier is running.

Examples:
  applaunch history
  applaunch history --sort recent
  applaunch history --favorites=false
  applaunch history move <from-id> <to-id>`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a history entry",
	Args:  cobra.ExactArgs(1),
	RunE: historyAction("delete", func(m *manager.Manager, args []string) manager.Outcome {
		return m.DeleteFromHistory(args[0])
	}),
}

var historyFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle the favorite flag of a history entry",
	Args:  cobra.ExactArgs(1),
	RunE: historyAction("favorite", func(m *manager.Manager, args []string) manager.Outcome {
		return m.ToggleFavorite(args[0])
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry that is not a favorite",
	Args:  cobra.NoArgs,
	RunE: historyAction("clear", func(m *manager.Manager, args []string) manager.Outcome {
		return m.ClearNonFavorites()
	}),
}

var historyMoveCmd = &cobra.Command{
	Use:   "move <from-id> <to-id>",
	Short: "Move an entry to another entry's position (manual sort only)",
	Long: `Remove the entry <from-id> and reinsert it at the index <to-id> has after the
removal. Moving an entry down places it just after the target; moving it up places
it at the target's position. Has no effect in recent sort mode.`,
	Args: cobra.ExactArgs(2),
	RunE: historyAction("move", func(m *manager.Manager, args []string) manager.Outcome {
		return m.Move(args[0], args[1])
	}),
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyDeleteCmd, historyFavoriteCmd, historyClearCmd, historyMoveCmd)
	historyCmd.Flags().String("sort", "", "Set the sort mode: manual, recent")
	historyCmd.Flags().Bool("favorites", false, "Set whether only favorites are shown")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if s, _ := cmd.Flags().GetString("sort"); s != "" {
		mode, err := model.ParseSortMode(s)
		if err != nil {
			return err
		}
		a.mgr.SetSortMode(mode)
	}
	if cmd.Flags().Changed("favorites") {
		on, _ := cmd.Flags().GetBool("favorites")
		a.mgr.SetShowOnlyFavorites(on)
	}
	if err := a.mgr.LastSaveError(); err != nil {
		return err
	}

	a.pollKeys()
	return output.Print(a.historyResult(cmd.Context()))
}

// historyAction builds a RunE that applies op and prints its outcome. A
// not-found id is reported in the output, not as a command error.
func historyAction(action string, op func(*manager.Manager, []string) manager.Outcome) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		outcome := op(a.mgr, args)
		result := output.ActionResult{OK: true, Action: action, Outcome: string(outcome)}
		if len(args) > 0 {
			result.ID = args[0]
		}
		if err := a.mgr.LastSaveError(); err != nil && outcome.Changed() {
			result.OK = false
			result.Error = err.Error()
		}
		return output.Print(result)
	}
}
