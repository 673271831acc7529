package rotlock

// waitSlot tracks a single in-flight rotation_lock request while its
// calling goroutine is suspended waiting for admission. It lives in
// Manager.waiters only for the duration of the wait; the waking
// goroutine removes its own slot as part of finishing, whether it
// was granted or interrupted (spec §3's WaitSlot, §4.4.2's state
// machine).
//
// writerRegistered records whether this request has already bumped
// waitingWriters across its range, so the increment happens at most
// once per request regardless of how many times the goroutine wakes
// and re-sleeps (mirrors the `writer_waiting` local flag in the
// reference kernel implementation this was distilled from).
type waitSlot struct {
	owner            ProcessId
	low, high        int
	mode             Mode
	writerRegistered bool
	forceInterrupted bool
}

// registerWriterIntent bumps waitingWriters for this slot's range if
// it hasn't already, latching writerRegistered so a later call is a
// no-op. Caller must hold the Manager's lock.
func (s *waitSlot) registerWriterIntent(c *counterTable) {
	if s.mode != Write || s.writerRegistered {
		return
	}
	c.addWaitingWriters(s.low, s.high, 1)
	s.writerRegistered = true
}

// unregisterWriterIntent rolls back a previously-registered
// waitingWriters bump, used both at grant time and on cancellation
// (spec §5: the decrement happens at grant or cancellation, never
// both). Caller must hold the Manager's lock.
func (s *waitSlot) unregisterWriterIntent(c *counterTable) {
	if !s.writerRegistered {
		return
	}
	c.addWaitingWriters(s.low, s.high, -1)
	s.writerRegistered = false
}
