package manager

import (
	"context"
	"sync"

	"github.com/mj1618/applaunch/internal/model"
	"go.uber.org/zap"
)

// Tier is one level of the termination escalation.
type Tier string

const (
	TierTerminate Tier = "terminate"
	TierForce     Tier = "force"
	TierKill      Tier = "kill"
)

// Step records one termination request sent to a process.
type Step struct {
	PID  int    `yaml:"pid"             json:"pid"`
	Tier Tier   `yaml:"tier"            json:"tier"`
	Err  string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Escalation tracks an in-flight kill. Follow-up tiers run in the
// background; Wait blocks until they are done.
type Escalation struct {
	Identifier string `yaml:"identifier" json:"identifier"`
	PIDs       []int  `yaml:"pids"       json:"pids"`

	mu    sync.Mutex
	steps []Step
	done  chan struct{}
}

func (e *Escalation) record(pid int, tier Tier, err error) {
	s := Step{PID: pid, Tier: tier}
	if err != nil {
		s.Err = err.Error()
	}
	e.mu.Lock()
	e.steps = append(e.steps, s)
	e.mu.Unlock()
}

// Steps returns the requests sent so far, in order.
func (e *Escalation) Steps() []Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Step, len(e.steps))
	copy(out, e.steps)
	return out
}

// Done is closed once the last tier has run.
func (e *Escalation) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the escalation finishes or ctx is done.
func (e *Escalation) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Kill terminates every running instance sharing record's bundle
// identifier. Each instance is asked to terminate; instances still running
// after the grace delay are force-terminated, and any still running after the
// force delay are sent SIGKILL. Kill returns once the first tier is sent.
// Unresolved means the path has no identifier; Noop means nothing with that
// identifier is running. The escalation handle is nil unless the outcome is
// Applied.
func (m *Manager) Kill(ctx context.Context, record model.AppRecord) (*Escalation, Outcome) {
	log := m.log.With(zap.String("path", record.Path))
	id, err := m.registry.ResolveIdentifier(ctx, record.Path)
	if err != nil || id == "" {
		log.Debug("kill: no bundle identifier", zap.Error(err))
		return nil, Unresolved
	}
	log = log.With(zap.String("identifier", id))

	pids, err := m.instances(ctx, id)
	if err != nil {
		log.Warn("kill: list running failed", zap.Error(err))
		return nil, Noop
	}
	if len(pids) == 0 {
		return nil, Noop
	}

	esc := &Escalation{Identifier: id, PIDs: pids, done: make(chan struct{})}
	for _, pid := range pids {
		err := m.registry.Terminate(ctx, pid)
		esc.record(pid, TierTerminate, err)
		log.Info("kill: terminate", zap.Int("pid", pid), zap.Error(err))
	}

	bg := context.WithoutCancel(ctx)
	go m.escalate(bg, esc, log)
	return esc, Applied
}

func (m *Manager) escalate(ctx context.Context, esc *Escalation, log *zap.Logger) {
	defer close(esc.done)

	<-m.after(m.grace)
	for _, pid := range m.survivors(ctx, esc, log) {
		err := m.registry.ForceTerminate(ctx, pid)
		esc.record(pid, TierForce, err)
		log.Info("kill: force terminate", zap.Int("pid", pid), zap.Error(err))
	}

	<-m.after(m.force)
	for _, pid := range m.survivors(ctx, esc, log) {
		err := m.registry.Kill(pid)
		esc.record(pid, TierKill, err)
		log.Warn("kill: SIGKILL", zap.Int("pid", pid), zap.Error(err))
	}
}

// survivors returns the escalation's pids that are still running. If the
// process list cannot be read every pid is treated as still running.
func (m *Manager) survivors(ctx context.Context, esc *Escalation, log *zap.Logger) []int {
	apps, err := m.registry.ListRunning(ctx)
	if err != nil {
		log.Warn("kill: list running failed, escalating", zap.Error(err))
		return esc.PIDs
	}
	live := make(map[int]bool, len(apps))
	for _, a := range apps {
		live[a.PID] = true
	}
	var out []int
	for _, pid := range esc.PIDs {
		if live[pid] {
			out = append(out, pid)
		}
	}
	return out
}

func (m *Manager) instances(ctx context.Context, identifier string) ([]int, error) {
	apps, err := m.registry.ListRunning(ctx)
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, a := range apps {
		if a.BundleID == identifier {
			pids = append(pids, a.PID)
		}
	}
	return pids, nil
}
