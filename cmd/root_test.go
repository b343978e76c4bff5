package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"catalog", "running", "launch", "history", "kill", "watch", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestHistoryCommand_HasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range historyCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"delete", "favorite", "clear", "move"} {
		if !found[name] {
			t.Errorf("expected history subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd      string
		name     string
		flagType string
	}{
		{"catalog", "add", "stringSlice"},
		{"history", "sort", "string"},
		{"history", "favorites", "bool"},
		{"kill", "no-wait", "bool"},
		{"watch", "duration", "int"},
		{"serve", "transport", "string"},
		{"serve", "port", "int"},
	}

	for _, tt := range tests {
		c, _, err := rootCmd.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("find %s: %v", tt.cmd, err)
		}
		f := c.Flags().Lookup(tt.name)
		if f == nil {
			t.Errorf("%s: expected flag %q not found", tt.cmd, tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("%s flag %q: expected type %q, got %q", tt.cmd, tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "pretty", "store", "store-path"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}
}
