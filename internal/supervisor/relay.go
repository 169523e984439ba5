package supervisor

import (
	"github.com/danmuck/sidecarctl/internal/notify"
	"github.com/danmuck/sidecarctl/internal/observability"
	"github.com/rs/zerolog/log"
)

// Relay drains one backend event stream: every event is logged, counted,
// and forwarded to the notification hub exactly once, in stream order. A
// Terminated event additionally clears the registry slot for a child that
// exited on its own.
type Relay struct {
	registry *Registry
	hub      *notify.Hub
}

// NewRelay binds a relay to the lifecycle registry and notification hub.
func NewRelay(registry *Registry, hub *notify.Hub) *Relay {
	return &Relay{registry: registry, hub: hub}
}

// Run consumes events until the stream closes. It never fails; backend
// trouble is relayed, not raised.
func (r *Relay) Run(events <-chan Event) {
	for ev := range events {
		observability.RecordBackendEvent(ev.Kind.String())
		switch ev.Kind {
		case EventStdout:
			log.Info().Str("line", ev.Line).Msg("backend_stdout")
			r.hub.Publish(notify.Notification{Channel: notify.ChannelBackendOutput, Text: ev.Line})
		case EventStderr:
			log.Error().Str("line", ev.Line).Msg("backend_stderr")
			r.hub.Publish(notify.Notification{Channel: notify.ChannelBackendError, Text: ev.Line})
		case EventLaunchError:
			log.Error().Str("cause", ev.Message).Msg("backend_process_error")
			r.hub.Publish(notify.Notification{Channel: notify.ChannelBackendError, Text: "process error: " + ev.Message})
		case EventTerminated:
			r.finish(ev)
		}
	}
}

// finish handles the final stream event: the child is already gone, so a
// handle still in the registry is consumed and dropped, never killed.
func (r *Relay) finish(ev Event) {
	event := log.Info()
	if ev.ExitCode != nil {
		event = event.Int("exit_code", *ev.ExitCode)
	} else {
		event = event.Bool("signaled", true)
	}
	event.Msg("backend_terminated")

	r.hub.Publish(notify.Notification{Channel: notify.ChannelBackendTerminated, ExitCode: ev.ExitCode})

	if r.registry.Take() != nil {
		observability.RecordBackendTermination("self")
	}
}
