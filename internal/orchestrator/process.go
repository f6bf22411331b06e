package orchestrator

import (
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// ProcessHandle is an opaque reference to a spawned executor process. It owns
// the process group the executor was started in, so signalling it also
// reaches transitively spawned children (browser drivers, browsers).
type ProcessHandle struct {
	name string
	cmd  *exec.Cmd

	mu   sync.Mutex
	done bool
	err  error
}

func newHandle(name string, cmd *exec.Cmd) *ProcessHandle {
	return &ProcessHandle{name: name, cmd: cmd}
}

func (h *ProcessHandle) Name() string { return h.name }

// Wait blocks until the process exits. Safe to call more than once.
func (h *ProcessHandle) Wait() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return h.err
	}
	h.err = h.cmd.Wait()
	h.done = true
	return h.err
}

// Terminate sends SIGTERM to the process group, waits up to grace for exit,
// then SIGKILLs. The group is signalled even when the lead process was already
// reaped: children it spawned stay in the group and may outlive it. All
// failures are reported but none indicate a live process; "already exited" is
// the common case during cleanup.
func (h *ProcessHandle) Terminate(grace time.Duration) error {
	h.mu.Lock()
	if h.cmd.Process == nil {
		h.mu.Unlock()
		return nil
	}
	pid := h.cmd.Process.Pid
	reaped := h.done
	h.mu.Unlock()

	// Negative pid signals the whole group.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return errors.Wrapf(err, "signal %s", h.name)
	}
	if reaped {
		// Only orphaned children were left to signal; nothing to wait on.
		return nil
	}

	exited := make(chan struct{})
	go func() {
		h.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		return nil
	case <-time.After(grace):
		syscall.Kill(-pid, syscall.SIGKILL)
		<-exited
		return nil
	}
}

// registry tracks executor processes until Cleanup sweeps their groups. The
// orchestrator holds at most one load-test handle at a time; the invariant is
// enforced here.
type registry struct {
	mu   sync.Mutex
	load *ProcessHandle
	ui   *ProcessHandle
}

func (r *registry) setLoad(h *ProcessHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.load != nil {
		return errors.New("a load-test process is already registered")
	}
	r.load = h
	return nil
}

func (r *registry) takeLoad() *ProcessHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.load
	r.load = nil
	return h
}

func (r *registry) peekLoad() *ProcessHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load
}

func (r *registry) setUI(h *ProcessHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ui = h
}

func (r *registry) takeUI() *ProcessHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.ui
	r.ui = nil
	return h
}
