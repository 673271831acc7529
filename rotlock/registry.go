package rotlock

// LockId uniquely identifies a granted lock for the lifetime of the
// Manager that granted it. Ids are minted by a monotone counter and
// are never negative or reused (spec invariant I5).
type LockId int64

// lockEntry is a single granted, not-yet-released lock (component R
// in spec §3). It is owned exclusively by the registry while held.
type lockEntry struct {
	id    LockId
	owner ProcessId
	low   int
	high  int
	mode  Mode
}

// registry is the set of currently granted locks, keyed by LockId.
// Every method here requires the caller to already hold the owning
// Manager's mutual-exclusion lock: the registry itself does no
// internal locking, matching spec §4.3's requirement that these
// operations be correct only under A's lock, nothing more.
type registry struct {
	entries map[LockId]*lockEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[LockId]*lockEntry)}
}

func (r *registry) insert(e *lockEntry) {
	r.entries[e.id] = e
}

// removeByID detaches and returns the entry for id, enforcing
// ownership. On success the entry is no longer present in the
// registry.
func (r *registry) removeByID(id LockId, requestingOwner ProcessId) (*lockEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, newError("rotation_unlock", CodeInvalidArgument)
	}
	if e.owner != requestingOwner {
		return nil, newError("rotation_unlock", CodePermissionDenied)
	}
	delete(r.entries, id)
	return e, nil
}

// drainByOwner detaches and returns every entry owned by owner, used
// by the exit hook. The registry no longer contains any of the
// returned entries once this call returns.
func (r *registry) drainByOwner(owner ProcessId) []*lockEntry {
	var drained []*lockEntry
	for id, e := range r.entries {
		if e.owner == owner {
			drained = append(drained, e)
			delete(r.entries, id)
		}
	}
	return drained
}

func (r *registry) len() int {
	return len(r.entries)
}
