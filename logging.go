package forms

import "time"

// SubmitLogEvent describes a finished submit.
type SubmitLogEvent struct {
	FormID   string
	Attempt  int
	Tasks    int
	Valid    bool
	Duration time.Duration
	Err      error
}

// Logger records submit events.
type Logger interface {
	LogSubmit(SubmitLogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(SubmitLogEvent)

// LogSubmit implements Logger.
func (f LoggerFunc) LogSubmit(event SubmitLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogSubmit(SubmitLogEvent) {}
