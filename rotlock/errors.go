// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package rotlock

import "errors"

// Code identifies which of the four closed error categories a failure
// belongs to. The taxonomy mirrors the syscall-style errno classes the
// manager's reference host (a kernel rotation-lock driver) returns.
type Code int

const (
	// CodeInvalidArgument means an argument was outside its declared
	// domain, or referred to a lock id that does not exist.
	CodeInvalidArgument Code = iota + 1
	// CodePermissionDenied means the caller is not the owner of the
	// referenced lock.
	CodePermissionDenied
	// CodeOutOfMemory means allocation of request bookkeeping failed.
	CodeOutOfMemory
	// CodeInterrupted means suspension ended via cancellation before
	// the request was admitted.
	CodeInterrupted
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "invalid argument"
	case CodePermissionDenied:
		return "permission denied"
	case CodeOutOfMemory:
		return "out of memory"
	case CodeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every rotlock operation
// that can fail. Op names the operation that failed (e.g.
// "rotation_lock"); Code classifies the failure into the closed
// taxonomy from spec §7.
type Error struct {
	Op   string
	Code Code
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Code.String()
}

// Is allows errors.Is(err, ErrInvalidArgument) and friends to match
// any *Error carrying that code, regardless of Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel values for errors.Is comparisons. These carry no Op and
// exist only as comparison targets; the errors actually returned by
// the manager carry the failing operation's name in Op.
var (
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied}
	ErrOutOfMemory      = &Error{Code: CodeOutOfMemory}
	ErrInterrupted      = &Error{Code: CodeInterrupted}
)

func newError(op string, code Code) error {
	return &Error{Op: op, Code: code}
}

// compile-time check that *Error satisfies the error interface.
var _ error = (*Error)(nil)

func isCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
