package domain

import (
	"errors"
	"fmt"
)

// SubmissionState is the lifecycle of one generate call.
type SubmissionState string

const (
	StateIdle              SubmissionState = "idle"
	StateRequesting        SubmissionState = "requesting"
	StateNormalizing       SubmissionState = "normalizing"
	StateReady             SubmissionState = "ready"
	StateTimedOut          SubmissionState = "timedOut"
	StateTransportFailed   SubmissionState = "transportFailed"
	StateMalformedResponse SubmissionState = "malformedResponse"
	StateEmptyResult       SubmissionState = "emptyResult"
)

var transitions = map[SubmissionState][]SubmissionState{
	StateIdle:        {StateRequesting},
	StateRequesting:  {StateNormalizing, StateTimedOut, StateTransportFailed, StateMalformedResponse},
	StateNormalizing: {StateReady, StateEmptyResult},
}

// Terminal reports whether no further transition is possible. Leaving a terminal
// state takes a brand-new submission.
func (s SubmissionState) Terminal() bool {
	switch s {
	case StateReady, StateTimedOut, StateTransportFailed, StateMalformedResponse, StateEmptyResult:
		return true
	}
	return false
}

func (s SubmissionState) CanTransition(to SubmissionState) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// StateFromError maps a submission error to its failure state. Errors outside the
// submission taxonomy report as transport failures.
func StateFromError(err error) SubmissionState {
	switch {
	case err == nil:
		return StateReady
	case errors.Is(err, ErrRequestTimeout):
		return StateTimedOut
	case errors.Is(err, ErrMalformedResponse):
		return StateMalformedResponse
	case errors.Is(err, ErrEmptyResult):
		return StateEmptyResult
	default:
		return StateTransportFailed
	}
}

// Submission tracks one request through the state machine.
type Submission struct {
	ID      string
	Request ExerciseRequest
	State   SubmissionState
}

func NewSubmission(id string, req ExerciseRequest) *Submission {
	return &Submission{ID: id, Request: req, State: StateIdle}
}

// Advance moves to the next state, rejecting transitions the machine does not allow.
func (s *Submission) Advance(to SubmissionState) error {
	if !s.State.CanTransition(to) {
		return NewInternalError(fmt.Sprintf("invalid submission transition %s -> %s", s.State, to), nil)
	}
	s.State = to
	return nil
}

// Fail moves to the failure state matching err.
func (s *Submission) Fail(err error) error {
	return s.Advance(StateFromError(err))
}
