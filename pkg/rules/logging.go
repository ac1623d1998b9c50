package rules

import "time"

// Outcome classifies one rule evaluation against a leaf input.
type Outcome string

const (
	// OutcomePassed is a check that held; the input flows on unchanged.
	OutcomePassed Outcome = "passed"
	// OutcomeRejected is a check that evaluated to false.
	OutcomeRejected Outcome = "rejected"
	// OutcomeTransformed is a transform that produced a new output.
	OutcomeTransformed Outcome = "transformed"
	// OutcomeBroken is a rule that failed with an *EvaluationError.
	OutcomeBroken Outcome = "broken"
)

// EvaluatorLogEvent describes one validator run. Input is the leaf input
// the rule saw; loggers writing to shared sinks should redact it.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	FormID   string
	Field    string
	Input    any
	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}
