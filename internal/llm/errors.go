package llm

import "fmt"

// Stage identifies one pipeline stage in errors.
type Stage string

const (
	// StageSummary is the tolerant stage-1 business summary.
	StageSummary Stage = "summary"
	// StageHypothesis is the strict stage-2 hypothesis chain.
	StageHypothesis Stage = "hypothesis"
	// StageLetter is the free-text stage-3 letter draft.
	StageLetter Stage = "letter"
)

// ContractError is a structured-output contract violation that survived
// repair. It is always fatal to the request; a malformed hypothesis chain is
// never guessed.
type ContractError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s stage contract violation: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s stage contract violation: %s", e.Stage, e.Message)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

// StageError wraps a transport failure with the stage it interrupted.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
