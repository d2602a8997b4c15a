package assembly

import (
	"errors"

	"murmur/internal/services"
	"murmur/internal/store"
)

// State names the phases of one assembly invocation. Only StateRecording
// writes the ledger, and it is reachable only from a successful concatenation.
type State string

const (
	StateResolving     State = "resolving"
	StateValidating    State = "validating_inputs"
	StateConcatenating State = "concatenating"
	StateRecording     State = "recording"
)

// Status is the terminal result of one assembly invocation.
type Status string

const (
	StatusSucceeded        Status = "succeeded"
	StatusSkipped          Status = "skipped"
	StatusFailedValidation Status = "failed_validation"
	StatusFailedTranscode  Status = "failed_transcode"
)

// Outcome reports how an assembly invocation ended. Exactly one of Merged,
// Reason, or Err is meaningful depending on Status.
type Outcome struct {
	Status Status
	State  State
	Merged *store.MergedAudioFile
	Reason string
	Err    error
}

// Failed reports whether the invocation ended in a failure state.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailedValidation || o.Status == StatusFailedTranscode
}

// ErrorKind returns the classification of a failed outcome's error.
func (o Outcome) ErrorKind() string {
	return services.Kind(o.Err)
}

func succeeded(merged *store.MergedAudioFile) Outcome {
	return Outcome{Status: StatusSucceeded, State: StateRecording, Merged: merged}
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, State: StateResolving, Reason: reason}
}

func failed(state State, err error) Outcome {
	status := StatusFailedValidation
	if errors.Is(err, services.ErrTranscode) {
		status = StatusFailedTranscode
	}
	return Outcome{Status: status, State: state, Err: err}
}
