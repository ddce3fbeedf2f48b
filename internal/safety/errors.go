package safety

import "errors"

// Ошибки предусловий менеджера сессий; сравнивать через errors.Is
var (
	ErrConflict        = errors.New("a session is already active")
	ErrValidation      = errors.New("validation failed")
	ErrPrecondition    = errors.New("precondition failed")
	ErrNoActiveSession = errors.New("no active session")
	ErrProvider        = errors.New("collaborator failure")
	ErrUnauthenticated = errors.New("user identity is required")
)
