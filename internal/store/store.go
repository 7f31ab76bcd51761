// Package store implements the dual-backend document store: a remote HTTP
// document database as the primary and a local JSON-file mirror as the
// fallback. All operations are best-effort; nothing here surfaces a hard
// failure to callers. The board must stay usable with zero reachable
// backends.
package store

// Source identifies which backend answered a read.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceLocal
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	default:
		return "none"
	}
}

// Status summarizes a fan-out write.
type Status int

const (
	// StatusApplied means every attempted backend persisted the write.
	StatusApplied Status = iota
	// StatusPartial means at least one backend persisted the write and at
	// least one failed.
	StatusPartial
	// StatusFailed means no backend persisted the write.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Outcome reports the per-backend result of a fan-out write. Callers treat
// it as advisory: a Failed outcome is logged, never raised.
type Outcome struct {
	RemoteTried bool
	LocalTried  bool
	RemoteErr   error
	LocalErr    error
}

func (o Outcome) Status() Status {
	var ok, failed int
	if o.RemoteTried {
		if o.RemoteErr == nil {
			ok++
		} else {
			failed++
		}
	}
	if o.LocalTried {
		if o.LocalErr == nil {
			ok++
		} else {
			failed++
		}
	}

	switch {
	case failed == 0 && ok > 0:
		return StatusApplied
	case ok > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}
