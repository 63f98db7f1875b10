package ffdec

import (
	"github.com/pkg/errors"
)

// ErrMissingInput is returned when executing an export without an input file
// or directory.
var ErrMissingInput = errors.New("ffdec: missing input file or directory")

// ExecError is a failed ffdec run. Output is what the tool printed, verbatim.
type ExecError struct {
	Command string
	Output  string
	Err     error
}

func (e *ExecError) Error() string {
	if e.Output == "" {
		return "ffdec: " + e.Err.Error()
	}
	return e.Output
}

func (e *ExecError) Cause() error {
	return e.Err
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
