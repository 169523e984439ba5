package supervisor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

var ErrLaunchFailed = errors.New("supervisor: launch failed")

const (
	scannerBufferSize = 1024 * 1024 // 1 MB
	eventBufferSize   = 64

	// EnvBackendPort carries the assigned port into the child environment.
	EnvBackendPort = "BACKEND_PORT"
)

// Launcher spawns packaged sidecar processes and exposes each lifetime as
// an event stream plus a kill handle.
type Launcher struct {
	catalog *Catalog
}

// NewLauncher builds a launcher over one packaged sidecar catalog.
func NewLauncher(catalog *Catalog) *Launcher {
	return &Launcher{catalog: catalog}
}

// Launch starts the named sidecar with EnvBackendPort set to port. The
// returned stream carries stdout and stderr lines and closes after exactly
// one Terminated event once the process is reaped.
func (l *Launcher) Launch(name string, port uint16) (<-chan Event, *Handle, error) {
	path, err := l.catalog.Resolve(name)
	if err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(path)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", EnvBackendPort, port))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stdout pipe: %v", ErrLaunchFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stderr pipe: %v", ErrLaunchFailed, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	events := make(chan Event, eventBufferSize)
	var pumps sync.WaitGroup
	pumps.Add(2)
	go pumpLines(stdout, EventStdout, events, &pumps)
	go pumpLines(stderr, EventStderr, events, &pumps)

	go func() {
		// Pipes must be drained before Wait reaps the process.
		pumps.Wait()
		events <- Event{Kind: EventTerminated, ExitCode: exitCode(cmd.Wait())}
		close(events)
	}()

	return events, newHandle(cmd.Process), nil
}

func pumpLines(pipe io.Reader, kind EventKind, events chan<- Event, pumps *sync.WaitGroup) {
	defer pumps.Done()
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, scannerBufferSize), scannerBufferSize)
	for scanner.Scan() {
		events <- Event{Kind: kind, Line: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		events <- Event{Kind: EventLaunchError, Message: fmt.Sprintf("%s stream: %v", kind, err)}
	}
}

// exitCode derives the optional exit code from a reaped process error.
// Signal deaths report no code.
func exitCode(err error) *int {
	if err == nil {
		code := 0
		return &code
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return &code
		}
	}
	return nil
}
