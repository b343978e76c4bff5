package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mj1618/applaunch/internal/output"
	"github.com/mj1618/applaunch/internal/platform"
	"github.com/mj1618/applaunch/internal/platform/platformtest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default; cobra keeps flag values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func fakePlatform(t *testing.T) *platformtest.Registry {
	t.Helper()
	reg, _ := fakePlatformWithKeys(t)
	return reg
}

func fakePlatformWithKeys(t *testing.T) (*platformtest.Registry, *platformtest.ModifierReader) {
	t.Helper()
	reg := platformtest.NewRegistry()
	mods := &platformtest.ModifierReader{}
	old := newProvider
	newProvider = func() (*platform.Provider, error) { return platformtest.Provider(reg, mods), nil }
	t.Cleanup(func() { newProvider = old })

	dir := t.TempDir()
	t.Setenv("APPLAUNCH_STORE_PATH", filepath.Join(dir, "settings.json"))
	t.Setenv("APPLAUNCH_SCAN_DIRS", dir)
	t.Setenv("APPLAUNCH_LOG_LEVEL", "error")
	t.Setenv("APPLAUNCH_KILL_GRACE_DELAY", "0s")
	t.Setenv("APPLAUNCH_KILL_FORCE_DELAY", "0s")
	return reg, mods
}

func runCLI(t *testing.T, out interface{}, args ...string) {
	t.Helper()
	var buf bytes.Buffer
	oldOut := output.Stdout
	output.Stdout = &buf
	t.Cleanup(func() { resetFlags(rootCmd) })
	defer func() { output.Stdout = oldOut }()

	rootCmd.SetArgs(append([]string{"--format", "json"}, args...))
	require.NoError(t, rootCmd.Execute())
	resetFlags(rootCmd)
	if out != nil {
		require.NoError(t, json.Unmarshal(buf.Bytes(), out), buf.String())
	}
}

func TestCLI_LaunchAndEditHistory(t *testing.T) {
	reg := fakePlatform(t)

	var a, b output.ActionResult
	runCLI(t, &a, "launch", "/Applications/Alpha.app")
	runCLI(t, &b, "launch", "/Applications/Beta.app")
	assert.Equal(t, "applied", a.Outcome)
	assert.Equal(t, []string{"open:/Applications/Alpha.app", "open:/Applications/Beta.app"}, reg.Calls())

	var history output.HistoryResult
	runCLI(t, &history, "history")
	require.Equal(t, 2, history.Count)
	assert.Equal(t, "Beta", history.Entries[0].Name)
	assert.Equal(t, "Alpha", history.Entries[1].Name)

	// Relaunching by name keeps the position.
	runCLI(t, nil, "launch", "alpha")
	runCLI(t, &history, "history")
	assert.Equal(t, a.ID, history.Entries[1].ID)

	var moved output.ActionResult
	runCLI(t, &moved, "history", "move", a.ID, b.ID)
	assert.Equal(t, "applied", moved.Outcome)
	runCLI(t, &history, "history")
	assert.Equal(t, "Alpha", history.Entries[0].Name)

	var fav output.ActionResult
	runCLI(t, &fav, "history", "favorite", b.ID)
	assert.Equal(t, "applied", fav.Outcome)

	var cleared output.ActionResult
	runCLI(t, &cleared, "history", "clear")
	assert.Equal(t, "applied", cleared.Outcome)
	runCLI(t, &history, "history")
	require.Equal(t, 1, history.Count)
	assert.Equal(t, b.ID, history.Entries[0].ID)

	var missing output.ActionResult
	runCLI(t, &missing, "history", "delete", "no-such-id")
	assert.Equal(t, "not-found", missing.Outcome)
}

func TestCLI_ViewSettingsPersist(t *testing.T) {
	fakePlatform(t)
	runCLI(t, nil, "launch", "/Applications/Alpha.app")

	var history output.HistoryResult
	runCLI(t, &history, "history", "--sort", "recent", "--favorites")
	assert.Equal(t, "recent", string(history.Sort))
	assert.True(t, history.FavoritesOnly)
	assert.Equal(t, 0, history.Count)

	runCLI(t, &history, "history")
	assert.Equal(t, "recent", string(history.Sort))
	assert.True(t, history.FavoritesOnly)

	var moved output.ActionResult
	runCLI(t, &moved, "history", "move", "x", "y")
	assert.Equal(t, "manual-only", moved.Outcome)
}

func TestCLI_HistoryHeldFilterKey(t *testing.T) {
	_, mods := fakePlatformWithKeys(t)
	var a output.ActionResult
	runCLI(t, &a, "launch", "/Applications/Alpha.app")
	runCLI(t, nil, "launch", "/Applications/Beta.app")
	runCLI(t, nil, "history", "favorite", a.ID)

	mods.Set(platform.FlagMaskCommand)
	var held output.HistoryResult
	runCLI(t, &held, "history")
	assert.False(t, held.FavoritesOnly, "the held key must not change the stored setting")
	require.Equal(t, 1, held.Count)
	assert.Equal(t, "Alpha", held.Entries[0].Name)

	mods.Set(0)
	var released output.HistoryResult
	runCLI(t, &released, "history")
	assert.Equal(t, 2, released.Count)
}

func TestCLI_HistoryRunningFlag(t *testing.T) {
	reg := fakePlatform(t)
	runCLI(t, nil, "launch", "/Applications/Alpha.app")
	runCLI(t, nil, "launch", "/Applications/Beta.app")
	reg.AddRunning("Alpha", "/Applications/Alpha.app", "com.example.alpha", 10)

	var history output.HistoryResult
	runCLI(t, &history, "history")
	require.Equal(t, 2, history.Count)
	running := map[string]bool{}
	for _, e := range history.Entries {
		running[e.Name] = e.Running
	}
	assert.True(t, running["Alpha"])
	assert.False(t, running["Beta"])
}

func TestCLI_Kill(t *testing.T) {
	reg := fakePlatform(t)
	reg.AddRunning("Alpha", "/Applications/Alpha.app", "com.example.alpha", 40)
	reg.AddRunning("Alpha", "/Applications/Alpha.app", "com.example.alpha", 41)
	reg.Survive(41, 2)

	var res output.KillResult
	runCLI(t, &res, "kill", "/Applications/Alpha.app")
	assert.Equal(t, "applied", res.Outcome)
	assert.True(t, res.Done)
	assert.Equal(t, []int{40, 41}, res.PIDs)
	assert.Equal(t, []string{"terminate:40", "terminate:41", "force:41", "kill:41"}, reg.Calls())
}

func TestCLI_RunningAndCatalog(t *testing.T) {
	reg := fakePlatform(t)
	reg.AddRunning("Beta", "/Applications/Beta.app", "com.example.beta", 2)
	reg.AddRunning("Alpha", "/Applications/Alpha.app", "com.example.alpha", 1)

	var running output.RunningResult
	runCLI(t, &running, "running")
	require.Equal(t, 2, running.Count)
	assert.Equal(t, "Alpha", running.Apps[0].Name)

	var catalog output.AppsResult
	runCLI(t, &catalog, "catalog", "--add", "/opt/Zeta.app", "--add", "/opt/Eta.app")
	require.Equal(t, 2, catalog.Count)
	assert.Equal(t, "Eta", catalog.Apps[0].Name)
}
