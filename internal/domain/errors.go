package domain

import "errors"

var (
	ErrNoActiveSession   = errors.New("no active session")
	ErrUnknownOption     = errors.New("value is not a configured option")
	ErrControllerStopped = errors.New("controller is stopped")
)
