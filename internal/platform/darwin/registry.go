//go:build unix

package darwin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mj1618/applaunch/internal/model"
	"github.com/mj1618/applaunch/internal/platform"
	"golang.org/x/sys/unix"
)

// runner executes an external command and returns its stdout.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Registry implements platform.Registry with osascript and open(1).
type Registry struct {
	run  runner
	kill func(pid int, sig unix.Signal) error
}

// NewRegistry returns a Registry that shells out to the system tools.
func NewRegistry() *Registry {
	return &Registry{run: runCommand, kill: unix.Kill}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func (r *Registry) jxa(ctx context.Context, script string, args ...string) ([]byte, error) {
	argv := append([]string{"-l", "JavaScript", "-e", script}, args...)
	return r.run(ctx, "osascript", argv...)
}

// ListRunning returns every running application, including those without a
// bundle path.
func (r *Registry) ListRunning(ctx context.Context) ([]model.RunningApp, error) {
	out, err := r.jxa(ctx, listRunningScript)
	if err != nil {
		return nil, fmt.Errorf("list running applications: %w", err)
	}
	return parseRunning(out)
}

// ResolveIdentifier returns the bundle identifier of the bundle at path.
func (r *Registry) ResolveIdentifier(ctx context.Context, path string) (string, error) {
	out, err := r.jxa(ctx, resolveIdentifierScript, path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", platform.ErrNoIdentifier
	}
	return id, nil
}

// Open launches the bundle at path (or activates it if already running).
func (r *Registry) Open(ctx context.Context, path string) error {
	if _, err := r.run(ctx, "open", path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// Terminate sends a graceful quit request.
func (r *Registry) Terminate(ctx context.Context, pid int) error {
	return r.terminate(ctx, "terminate", pid)
}

// ForceTerminate sends a forced quit request.
func (r *Registry) ForceTerminate(ctx context.Context, pid int) error {
	return r.terminate(ctx, "force", pid)
}

func (r *Registry) terminate(ctx context.Context, mode string, pid int) error {
	out, err := r.jxa(ctx, terminateScript, mode, strconv.Itoa(pid))
	if err != nil {
		return fmt.Errorf("%s pid %d: %w", mode, pid, err)
	}
	return parseTerminateResult(mode, pid, out)
}

// Kill sends SIGKILL. A process that no longer exists is not an error.
func (r *Registry) Kill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	if err := r.kill(pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}

type runningJSON struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	BundleID string `json:"bundleId"`
	PID      int    `json:"pid"`
}

func parseRunning(data []byte) ([]model.RunningApp, error) {
	var raw []runningJSON
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, fmt.Errorf("decode running applications: %w", err)
	}
	apps := make([]model.RunningApp, 0, len(raw))
	for _, a := range raw {
		apps = append(apps, model.RunningApp{
			Name:     a.Name,
			Path:     a.Path,
			BundleID: a.BundleID,
			PID:      a.PID,
		})
	}
	return apps, nil
}

func parseTerminateResult(mode string, pid int, out []byte) error {
	switch strings.TrimSpace(string(out)) {
	case "sent", "gone":
		return nil
	case "refused":
		return fmt.Errorf("%s pid %d: request refused", mode, pid)
	default:
		return fmt.Errorf("%s pid %d: unexpected reply %q", mode, pid, strings.TrimSpace(string(out)))
	}
}
