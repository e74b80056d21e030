/*
 * errors.go, part of aLENS-analysis.
 *
 * Copyright 2024 The aLENS-analysis authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nematic

import (
	"errors"
	"fmt"
	"strings"
)

// The kinds of failure in the library. Every *Error wraps exactly one of them,
// so callers can dispatch with errors.Is.
var (
	// ErrMalformedInput: missing fields, inconsistent shapes, invalid boxes or options.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDegenerate: zero-length bonds, empty frames or empty wavevector grids.
	ErrDegenerate = errors.New("numerical degeneracy")
	// ErrInsufficientData: the trajectory is too short for the requested analysis.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrResource: an intermediate would exceed the configured memory bound.
	ErrResource = errors.New("resource exhausted")
)

// Error is the error type of aLENS-analysis. The Decorate method allows adding
// the functions the error went through, without changing its type.
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

// NewError returns an *Error of the given kind. caller is the first decoration.
// Insufficient data errors are not critical, all the others are.
func NewError(kind error, caller, format string, args ...interface{}) *Error {
	return &Error{
		message:  fmt.Sprintf(format, args...),
		kind:     kind,
		deco:     []string{caller},
		critical: kind != ErrInsufficientData,
	}
}

// Error returns a string with an error message.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%v: %s", err.kind, err.message)
	}
	return fmt.Sprintf("%v: %s (%s)", err.kind, err.message, strings.Join(err.deco, " <- "))
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice. An empty dec just returns the current slice.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err *Error) Critical() bool { return err.critical }

// Unwrap returns the kind of the error.
func (err *Error) Unwrap() error { return err.kind }

// Message returns the error message without kind or decorations.
func (err *Error) Message() string { return err.message }

// errDecorate decorates err with the caller's name if it is an *Error,
// and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

// Decorate is errDecorate for other packages of the module.
func Decorate(err error, caller string) error {
	return errDecorate(err, caller)
}
