// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"errors"
	"fmt"
)

// FlagError indicates an error processing command-line flags or other arguments.
// When a FlagError is returned, the CLI prints the command's usage after the error.
//
// Use FlagError for validation errors in validate*Options functions, never for
// I/O or parse errors of the files the command works on.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// FlagErrorf creates a new FlagError with a formatted message.
func FlagErrorf(format string, args ...any) error {
	return &FlagError{Err: fmt.Errorf(format, args...)}
}

func IsFlagError(err error) bool {
	var flagErr *FlagError
	return errors.As(err, &flagErr)
}
