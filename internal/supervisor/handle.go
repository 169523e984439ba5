package supervisor

import "os"

// Handle is the kill capability for one launched backend process.
// Ownership is exclusive: the actor that takes it from the registry is the
// only one allowed to kill through it.
type Handle struct {
	proc *os.Process
}

func newHandle(proc *os.Process) *Handle {
	return &Handle{proc: proc}
}

// PID returns the operating system process id.
func (h *Handle) PID() int {
	return h.proc.Pid
}

// Kill forcibly terminates the process without waiting for it to exit.
// Reaping stays with the launcher's waiter goroutine.
func (h *Handle) Kill() error {
	return h.proc.Kill()
}
