package action

import "fmt"

// Phase names the step of the statement lifecycle an error occurred in.
type Phase string

const (
	PhasePrepare Phase = "PREPARE"
	PhaseBind    Phase = "BIND"
	PhaseExecute Phase = "EXECUTE"
	PhaseRead    Phase = "READ"
)

// StmtError tags a driver/binder/reader failure with its lifecycle phase.
// No further classification happens at this layer; callers inspect the
// wrapped error (constraint violation, connectivity, deadlock, ...) and
// the transaction runner decides whether a retry is safe.
type StmtError struct {
	Phase Phase
	SQL   string
	Err   error
}

func (e *StmtError) Error() string {
	return fmt.Sprintf("stmt %s failed: %v", e.Phase, e.Err)
}

func (e *StmtError) Unwrap() error {
	return e.Err
}
