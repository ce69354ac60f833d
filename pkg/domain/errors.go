package domain

import "errors"

// ErrNoSnapshot is returned when state is read before any snapshot exists.
var ErrNoSnapshot = errors.New("no snapshot available")

// ErrSourceUnavailable is returned by source adapters when the remote
// service cannot produce a well-formed success response.
var ErrSourceUnavailable = errors.New("snapshot source unavailable")

// ErrNotExecutable is returned when execution is attempted on a human-only action.
var ErrNotExecutable = errors.New("action is not machine-executable")

// ErrAlreadyExecuted is returned when execution is attempted on a completed action.
var ErrAlreadyExecuted = errors.New("action already executed")

// ErrExecutionInFlight is returned while a ticket is open for another execution.
var ErrExecutionInFlight = errors.New("another execution is in flight")

// ErrUnknownAction is returned when an action id is not present in the snapshot.
var ErrUnknownAction = errors.New("unknown action id")
