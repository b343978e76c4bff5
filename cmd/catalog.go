package cmd

import (
	"github.com/mj1618/applaunch/internal/output"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List installed applications",
	Long: `Scan the application directories and list every bundle found, sorted by name.

Directories default to /Applications, /Applications/Utilities, /System/Applications
and /Library/Application Support; set APPLAUNCH_SCAN_DIRS to override and
APPLAUNCH_SCAN_USER_APPS=true to include ~/Applications. Unreadable directories
are skipped.

Examples:
  applaunch catalog
  applaunch catalog --add ~/Downloads/Tool.app --format json`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringSlice("add", nil, "Add bundle paths outside the scanned directories (repeatable)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	adds, _ := cmd.Flags().GetStringSlice("add")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.mgr.Rescan()
	for _, p := range adds {
		a.mgr.AddToCatalog(p)
	}
	apps := a.mgr.Catalog()
	return output.Print(output.AppsResult{Count: len(apps), Apps: apps})
}
