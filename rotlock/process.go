package rotlock

import "github.com/petermattis/goid"

// ProcessId identifies the caller on whose behalf a lock is held. The
// manager's reference host (a kernel driver) identifies callers by
// pid; the core API takes ProcessId as an explicit parameter so it
// stays agnostic of how a given host maps a caller to an identity.
type ProcessId int64

// Mode selects whether a requested range is to be held for shared
// reading or exclusive writing.
type Mode int

const (
	// Read grants shared access; any number of readers may hold
	// overlapping ranges concurrently.
	Read Mode = iota
	// Write grants exclusive access; a writer excludes both readers
	// and other writers over its range.
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "invalid"
	}
}

func (m Mode) valid() bool {
	return m == Read || m == Write
}

// CurrentProcessID returns a ProcessId derived from the calling
// goroutine's runtime id. It is a convenience for hosts (tests, the
// demo CLI) that have no process table of their own to bind
// ProcessId to; it is never used internally by Manager, which always
// takes ProcessId as an explicit argument from its caller.
func CurrentProcessID() ProcessId {
	return ProcessId(goid.Get())
}
