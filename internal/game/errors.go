package game

import (
	"errors"
	"fmt"
)

// ErrRejected matches every precondition rejection via errors.Is.
var ErrRejected = errors.New("rejected")

// Rejection reports a command the engine refused. State is left unchanged.
type Rejection struct {
	Op     string
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Op, r.Reason)
}

func (r *Rejection) Is(target error) bool {
	return target == ErrRejected
}

func reject(op, format string, args ...any) error {
	return &Rejection{Op: op, Reason: fmt.Sprintf(format, args...)}
}
