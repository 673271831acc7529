package rotlock

// degreeCounter tallies active readers, active writers, and waiting
// writers at a single degree. All fields are accessed only while the
// owning Manager's mutual-exclusion lock is held; see counterTable.
type degreeCounter struct {
	activeReaders  uint32
	activeWriters  uint32
	waitingWriters uint32
}

// counterTable holds one degreeCounter per degree in the circular
// domain [0, MaxDegree). It is embedded directly in Manager rather
// than allocated lazily: spec's design notes call out the source's
// lazy zero-init as an unnecessary hazard, and a fixed-size array is
// already zero-valued on construction.
type counterTable [MaxDegree]degreeCounter

// forEachDegree invokes fn once for every degree in the closed range
// [low, high], honoring circular wraparound when low > high. This is
// the single place that implements the wrap-iteration rule from
// spec §4.2 so every caller (admission predicate, counter bumps,
// rollback) agrees on exactly which degrees a range covers.
func forEachDegree(low, high int, fn func(d int)) {
	if low <= high {
		for d := low; d <= high; d++ {
			fn(d)
		}
		return
	}
	for d := low; d < MaxDegree; d++ {
		fn(d)
	}
	for d := 0; d <= high; d++ {
		fn(d)
	}
}

func (c *counterTable) addReaders(low, high int, delta int32) {
	forEachDegree(low, high, func(d int) {
		c[d].activeReaders = uint32(int32(c[d].activeReaders) + delta)
	})
}

func (c *counterTable) addWriters(low, high int, delta int32) {
	forEachDegree(low, high, func(d int) {
		c[d].activeWriters = uint32(int32(c[d].activeWriters) + delta)
	})
}

func (c *counterTable) addWaitingWriters(low, high int, delta int32) {
	forEachDegree(low, high, func(d int) {
		c[d].waitingWriters = uint32(int32(c[d].waitingWriters) + delta)
	})
}

// rangeAvailable implements the admission predicate's per-degree
// compatibility check (spec §4.4.1), independent of orientation
// gating (checked separately by the caller).
func (c *counterTable) rangeAvailable(low, high int, mode Mode) bool {
	available := true
	forEachDegree(low, high, func(d int) {
		if !available {
			return
		}
		if mode == Read {
			if c[d].activeWriters > 0 || c[d].waitingWriters > 0 {
				available = false
			}
		} else {
			if c[d].activeReaders > 0 || c[d].activeWriters > 0 {
				available = false
			}
		}
	})
	return available
}
