package supervisor

// EventKind discriminates backend process stream events.
type EventKind int

const (
	EventStdout EventKind = iota
	EventStderr
	EventLaunchError
	EventTerminated
)

func (k EventKind) String() string {
	switch k {
	case EventStdout:
		return "stdout"
	case EventStderr:
		return "stderr"
	case EventLaunchError:
		return "launch_error"
	case EventTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Event is one observation from a launched backend process. Line carries
// stdout/stderr payloads, Message carries launch-error causes, and
// ExitCode is set only on Terminated; nil means the process was killed by
// a signal and no exit code exists.
type Event struct {
	Kind     EventKind
	Line     string
	Message  string
	ExitCode *int
}
