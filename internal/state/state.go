// Package state holds the upload form's state and the pure reducer that
// drives it. Hosts (the TUI, the predict and watch commands) feed actions in
// and perform the requests the reducer asks for.
package state

import (
	"github.com/yildizm/CloudClassify/internal/predict"
)

// State is the form state. Result and Err are never both set.
type State struct {
	File   *predict.File
	Result *predict.Result
	Err    *predict.Error

	// InFlight counts requests emitted but not yet settled
	InFlight int

	// Attempts counts submits that emitted a request
	Attempts int

	// Serialize ignores submits while a request is in flight
	Serialize bool
}

// New returns the initial state
func New(serialize bool) State {
	return State{Serialize: serialize}
}

// Pending reports whether any request is still outstanding
func (s State) Pending() bool {
	return s.InFlight > 0
}

// Action is an input to Reduce
type Action interface {
	isAction()
}

// SelectFile replaces the selected file
type SelectFile struct {
	File *predict.File
}

// Submit starts a prediction attempt for the selected file
type Submit struct{}

// Settled reports the outcome of the request emitted for Attempt.
// Exactly one of Result and Err is expected to be set.
type Settled struct {
	Attempt int
	Result  *predict.Result
	Err     *predict.Error
}

func (SelectFile) isAction() {}
func (Submit) isAction()     {}
func (Settled) isAction()    {}

// SettledFrom builds a Settled action from a predictor's return values
func SettledFrom(attempt int, result *predict.Result, err error) Settled {
	if err != nil {
		return Settled{Attempt: attempt, Err: predict.AsError(err)}
	}
	return Settled{Attempt: attempt, Result: result}
}

// Request asks the host to run a prediction for File and report back with Settled
type Request struct {
	Attempt int
	File    *predict.File
}

// Reduce applies action to s. It never performs I/O; a non-nil Request means
// the host must call the predictor and feed the outcome back as Settled.
func Reduce(s State, action Action) (State, *Request) {
	switch a := action.(type) {
	case SelectFile:
		s.File = a.File
		return s, nil

	case Submit:
		if s.Serialize && s.Pending() {
			return s, nil
		}

		s.Result = nil
		s.Err = nil

		if s.File == nil {
			s.Err = predict.NewValidationError(predict.MsgNoFile)
			return s, nil
		}

		s.Attempts++
		s.InFlight++
		return s, &Request{Attempt: s.Attempts, File: s.File}

	case Settled:
		if s.InFlight > 0 {
			s.InFlight--
		}

		// Last settle wins; attempts are not correlated
		if a.Err != nil {
			s.Result = nil
			s.Err = a.Err
			return s, nil
		}
		s.Err = nil
		s.Result = a.Result
		return s, nil
	}

	return s, nil
}
