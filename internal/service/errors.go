package service

import "fmt"

// ValidationError covers malformed or incomplete input. Safe to retry after
// correcting the payload; nothing was written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CapacityError rejects a lodging request that exceeds the remaining pool.
// Remaining carries the current count so the caller can present
// alternatives.
type CapacityError struct {
	Required  int
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("hébergement complet : %d place(s) demandée(s), %d restante(s)",
		e.Required, e.Remaining)
}
