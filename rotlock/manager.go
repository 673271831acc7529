package rotlock

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Manager is the admission engine (component A in spec §2): the wait
// queue, admission predicate, ordering/fairness policy, and
// suspend/resume protocol, binding together the orientation scalar
// (O), the per-degree counters (C), and the lock registry (R). It is
// the core of this package; everything else is a leaf it depends on.
//
// A Manager is safe for concurrent use. The zero value is not usable;
// construct one with New.
type Manager struct {
	mu          sync.Mutex
	cond        *sync.Cond
	orientation Orientation
	counters    counterTable
	reg         *registry
	waiters     map[*waitSlot]struct{}
	nextID      atomic.Int64

	maxOutstanding int
	logger         *zap.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithOrientation supplies an alternate Orientation collaborator in
// place of the built-in int-plus-mutex default, for hosts that
// already track orientation elsewhere (a sensor driver, a test
// double that can be driven without going through SetOrientation).
func WithOrientation(o Orientation) Option {
	return func(m *Manager) { m.orientation = o }
}

// WithLogger attaches a *zap.Logger. The default is a no-op logger,
// so a Manager constructed without this option never allocates log
// records.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMaxOutstanding bounds the number of locks (granted plus
// waiting) a Manager will track at once; a request that would exceed
// it fails fast with CodeOutOfMemory instead of queueing. Zero (the
// default) means unbounded.
func WithMaxOutstanding(n int) Option {
	return func(m *Manager) { m.maxOutstanding = n }
}

// New constructs a ready-to-use Manager. All per-degree counters
// start at zero and the registry starts empty; there is no lazy
// initialization flag to forget to check.
func New(opts ...Option) *Manager {
	m := &Manager{
		orientation: newDefaultOrientation(),
		reg:         newRegistry(),
		waiters:     make(map[*waitSlot]struct{}),
		logger:      zap.NewNop(),
	}
	m.cond = sync.NewCond(&m.mu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetOrientation atomically replaces the orientation scalar and
// re-wakes every suspended rotation_lock call so each can re-test
// its own admission predicate. It never blocks the caller and never
// fails except on an out-of-range degree.
func (m *Manager) SetOrientation(degree int) error {
	if degree < 0 || degree >= MaxDegree {
		return newError("set_orientation", CodeInvalidArgument)
	}
	if err := m.orientation.Set(degree); err != nil {
		return err
	}
	m.logger.Info("orientation changed", zap.Int("degree", degree))
	m.cond.Broadcast()
	return nil
}

// Lock requests a lock over the circular range [low, high] in the
// given mode on behalf of owner, blocking the calling goroutine until
// the request is admitted, ctx is done, or the arguments are
// rejected outright. On success it returns a non-negative, globally
// unique LockId that must later be passed to Unlock (or released via
// OnExit).
//
// ctx may be nil (or one that is never canceled), in which case the
// only way the call ends without a grant is OnExit being run for
// owner, which also yields ErrInterrupted. A non-nil ctx being
// canceled while suspended causes Lock to return ErrInterrupted; any
// writer-preference bookkeeping this request had registered is rolled
// back before returning, exactly as a clean grant would roll it back
// before registering the grant.
func (m *Manager) Lock(ctx context.Context, owner ProcessId, low, high int, mode Mode) (LockId, error) {
	if low < 0 || low >= MaxDegree || high < 0 || high >= MaxDegree || !mode.valid() {
		return 0, newError("rotation_lock", CodeInvalidArgument)
	}

	m.mu.Lock()
	if m.maxOutstanding > 0 && m.reg.len()+len(m.waiters) >= m.maxOutstanding {
		m.mu.Unlock()
		return 0, newError("rotation_lock", CodeOutOfMemory)
	}
	id := LockId(m.nextID.Add(1))
	slot := &waitSlot{owner: owner, low: low, high: high, mode: mode}
	m.waiters[slot] = struct{}{}
	m.mu.Unlock()

	var stopWatch chan struct{}
	if ctx != nil && ctx.Done() != nil {
		stopWatch = make(chan struct{})
		go m.watchCancellation(ctx, slot, stopWatch)
	}
	stopWatching := func() {
		if stopWatch != nil {
			close(stopWatch)
		}
	}

	m.mu.Lock()
	for {
		if slot.forceInterrupted {
			hadRegistered := slot.writerRegistered
			slot.unregisterWriterIntent(&m.counters)
			delete(m.waiters, slot)
			m.mu.Unlock()
			stopWatching()
			if hadRegistered {
				// This request's waitingWriters decrement has no
				// compensating increment (unlike the write-grant
				// path), so it can be the sole thing unblocking a
				// reader waiting under the writer-preference rule.
				// Broadcast so that reader re-tests now rather than
				// waiting on some unrelated future wakeup.
				m.cond.Broadcast()
			}
			m.logger.Debug("rotation_lock interrupted",
				zap.Int("low", low), zap.Int("high", high), zap.Stringer("mode", mode))
			return 0, newError("rotation_lock", CodeInterrupted)
		}

		orientation := m.orientation.Read()
		if orientationInRange(orientation, low, high) && m.counters.rangeAvailable(low, high, mode) {
			slot.unregisterWriterIntent(&m.counters)
			if mode == Read {
				m.counters.addReaders(low, high, 1)
			} else {
				m.counters.addWriters(low, high, 1)
			}
			m.reg.insert(&lockEntry{id: id, owner: owner, low: low, high: high, mode: mode})
			delete(m.waiters, slot)
			m.mu.Unlock()
			stopWatching()
			if mode == Write {
				// A writer grant may decrement waitingWriters, so wake
				// sleepers to retest. Readers that were yielding to this
				// writer overlap its range and stay blocked by it now
				// being active; the broadcast is a conservative retest.
				m.cond.Broadcast()
			}
			m.logger.Debug("rotation_lock granted",
				zap.Int64("id", int64(id)), zap.Int("low", low), zap.Int("high", high),
				zap.Stringer("mode", mode))
			return id, nil
		}

		// Writer-preference: a writer that cannot yet proceed
		// registers its intent across its range so that later
		// readers over an overlapping degree yield to it. Readers
		// never register; only the presence of a waiting writer
		// matters to the predicate.
		slot.registerWriterIntent(&m.counters)
		m.cond.Wait()
	}
}

func (m *Manager) watchCancellation(ctx context.Context, slot *waitSlot, stop <-chan struct{}) {
	select {
	case <-ctx.Done():
		m.mu.Lock()
		slot.forceInterrupted = true
		m.mu.Unlock()
		m.cond.Broadcast()
	case <-stop:
	}
}

// Unlock releases the lock identified by id on behalf of owner. It
// never blocks. id must belong to a lock still held by owner, or
// Unlock fails without modifying any state.
func (m *Manager) Unlock(owner ProcessId, id LockId) error {
	if id < 0 {
		return newError("rotation_unlock", CodeInvalidArgument)
	}

	m.mu.Lock()
	entry, err := m.reg.removeByID(id, owner)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if entry.mode == Read {
		m.counters.addReaders(entry.low, entry.high, -1)
	} else {
		m.counters.addWriters(entry.low, entry.high, -1)
	}
	m.mu.Unlock()

	m.cond.Broadcast()
	m.logger.Debug("rotation_unlock released", zap.Int64("id", int64(id)))
	return nil
}

// OnExit is the exit hook (component X): it releases every lock
// currently owned by owner, cancels every suspended Lock request
// belonging to owner (rolling back any writer-preference bookkeeping
// those requests had registered), and re-wakes remaining waiters. It
// has no failure mode — cleanup cannot fail — and returns the number
// of locks it released, for host-side logging/accounting.
//
// Hosts that have a process/task lifecycle should call this from
// their teardown path; hosts without one must rely on clients calling
// Unlock explicitly, or entries will accumulate until the Manager
// itself is discarded.
func (m *Manager) OnExit(owner ProcessId) int {
	m.mu.Lock()
	drained := m.reg.drainByOwner(owner)
	for _, e := range drained {
		if e.mode == Read {
			m.counters.addReaders(e.low, e.high, -1)
		} else {
			m.counters.addWriters(e.low, e.high, -1)
		}
	}
	for slot := range m.waiters {
		if slot.owner == owner {
			slot.unregisterWriterIntent(&m.counters)
			slot.forceInterrupted = true
		}
	}
	m.mu.Unlock()

	m.cond.Broadcast()
	m.logger.Debug("exit hook ran", zap.Int("owner", int(owner)), zap.Int("released", len(drained)))
	return len(drained)
}

// Snapshot returns a copy of the current per-degree counters, mainly
// useful for tests and diagnostics that need to assert on P1/P2-style
// invariants without reaching into package internals.
func (m *Manager) Snapshot() [MaxDegree]DegreeStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [MaxDegree]DegreeStats
	for d := 0; d < MaxDegree; d++ {
		out[d] = DegreeStats{
			ActiveReaders:  m.counters[d].activeReaders,
			ActiveWriters:  m.counters[d].activeWriters,
			WaitingWriters: m.counters[d].waitingWriters,
		}
	}
	return out
}

// DegreeStats is the exported view of a single degree's counters,
// returned by Snapshot.
type DegreeStats struct {
	ActiveReaders  uint32
	ActiveWriters  uint32
	WaitingWriters uint32
}
