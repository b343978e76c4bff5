//go:build unix

package darwin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type call struct {
	name string
	args []string
}

func fakeRegistry(reply string, err error) (*Registry, *[]call) {
	var calls []call
	r := &Registry{
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			calls = append(calls, call{name: name, args: args})
			return []byte(reply), err
		},
		kill: func(pid int, sig unix.Signal) error { return nil },
	}
	return r, &calls
}

func TestListRunning(t *testing.T) {
	reply := `[{"name":"Safari","path":"/Applications/Safari.app","bundleId":"com.apple.Safari","pid":412},` +
		`{"name":"launchd helper","path":"","bundleId":"","pid":88}]` + "\n"
	r, calls := fakeRegistry(reply, nil)

	apps, err := r.ListRunning(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.RunningApp{
		{Name: "Safari", Path: "/Applications/Safari.app", BundleID: "com.apple.Safari", PID: 412},
		{Name: "launchd helper", PID: 88},
	}, apps)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, "osascript", c.name)
	assert.Equal(t, []string{"-l", "JavaScript", "-e"}, c.args[:3])
	assert.True(t, strings.Contains(c.args[3], "runningApplications"))
}

func TestListRunning_BadOutput(t *testing.T) {
	r, _ := fakeRegistry("execution error", nil)
	_, err := r.ListRunning(context.Background())
	assert.Error(t, err)

	r, _ = fakeRegistry("", errors.New("exit status 1"))
	_, err = r.ListRunning(context.Background())
	assert.Error(t, err)
}

func TestResolveIdentifier(t *testing.T) {
	r, calls := fakeRegistry("com.apple.Notes\n", nil)
	id, err := r.ResolveIdentifier(context.Background(), "/System/Applications/Notes.app")
	require.NoError(t, err)
	assert.Equal(t, "com.apple.Notes", id)
	args := (*calls)[0].args
	assert.Equal(t, "/System/Applications/Notes.app", args[len(args)-1])

	r, _ = fakeRegistry("\n", nil)
	_, err = r.ResolveIdentifier(context.Background(), "/tmp/not-a-bundle")
	assert.ErrorIs(t, err, platform.ErrNoIdentifier)
}

func TestTerminateReplies(t *testing.T) {
	tests := []struct {
		reply   string
		wantErr bool
	}{
		{"sent\n", false},
		{"gone\n", false},
		{"refused\n", true},
		{"???", true},
	}
	for _, tt := range tests {
		r, calls := fakeRegistry(tt.reply, nil)
		err := r.Terminate(context.Background(), 77)
		assert.Equal(t, tt.wantErr, err != nil, "reply %q", tt.reply)
		args := (*calls)[0].args
		assert.Equal(t, []string{"terminate", "77"}, args[len(args)-2:])
	}

	r, calls := fakeRegistry("sent", nil)
	require.NoError(t, r.ForceTerminate(context.Background(), 5))
	args := (*calls)[0].args
	assert.Equal(t, []string{"force", "5"}, args[len(args)-2:])
}

func TestOpen(t *testing.T) {
	r, calls := fakeRegistry("", nil)
	require.NoError(t, r.Open(context.Background(), "/Applications/Safari.app"))
	assert.Equal(t, call{name: "open", args: []string{"/Applications/Safari.app"}}, (*calls)[0])

	r, _ = fakeRegistry("", errors.New("exit status 1"))
	assert.Error(t, r.Open(context.Background(), "/nope.app"))
}

func TestKill(t *testing.T) {
	var got []int
	r := &Registry{kill: func(pid int, sig unix.Signal) error {
		got = append(got, pid)
		if sig != unix.SIGKILL {
			t.Errorf("signal = %v, want SIGKILL", sig)
		}
		if pid == 2 {
			return unix.ESRCH
		}
		if pid == 3 {
			return unix.EPERM
		}
		return nil
	}}
	assert.NoError(t, r.Kill(1))
	assert.NoError(t, r.Kill(2))
	assert.Error(t, r.Kill(3))
	assert.Error(t, r.Kill(0))
	assert.Equal(t, []int{1, 2, 3}, got)
}
