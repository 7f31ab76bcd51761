package store

import (
	"context"

	"anonboard/internal/logging"
)

// Dual combines the remote document store and the local file mirror into one
// logical store. Reads prefer the remote and silently fall back to the local
// snapshot; writes fan out to both backends best-effort. No operation ever
// returns a hard failure: availability wins over consistency here, and the
// typed Outcome exists so the degradation is at least observable in logs.
type Dual struct {
	remote *Remote // nil when the remote backend is not configured
	local  *File
	logger logging.Logger
}

func NewDual(remote *Remote, local *File, logger logging.Logger) *Dual {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Dual{remote: remote, local: local, logger: logger}
}

// LocalOnly reports whether the store runs without a remote backend.
func (d *Dual) LocalOnly() bool { return d.remote == nil }

// Get returns the document under key and the backend that answered. A
// reachable remote is authoritative even when it holds nothing; the local
// snapshot is only consulted when the remote is unconfigured or failing.
// When neither backend answers the result is (nil, SourceNone) — callers
// cannot distinguish absence from outage, by contract.
func (d *Dual) Get(ctx context.Context, key string) ([]byte, Source) {
	if d.remote != nil {
		data, err := d.remote.Get(ctx, key)
		if err == nil {
			return data, SourceRemote
		}
		d.logger.Warn(ctx, "remote read failed, falling back", "key", key, "err", err)
	}

	data, err := d.local.Get(ctx, key)
	if err == nil {
		return data, SourceLocal
	}

	return nil, SourceNone
}

// Put replaces the document under key on every configured backend.
func (d *Dual) Put(ctx context.Context, key string, doc []byte) Outcome {
	var out Outcome

	if d.remote != nil {
		out.RemoteTried = true
		out.RemoteErr = d.remote.Put(ctx, key, doc)
	}

	out.LocalTried = true
	out.LocalErr = d.local.Put(ctx, key, doc)

	d.report(ctx, "put", key, out)
	return out
}

// Append pushes item to the remote collection under key (atomic, remote
// ordering authoritative) and writes the caller-computed mirror document to
// the local store. The returned id is the remote child key, empty when the
// push did not happen.
func (d *Dual) Append(ctx context.Context, key string, item, mirror []byte) (string, Outcome) {
	var out Outcome
	var id string

	if d.remote != nil {
		out.RemoteTried = true
		id, out.RemoteErr = d.remote.Push(ctx, key, item)
	}

	out.LocalTried = true
	out.LocalErr = d.local.Put(ctx, key, mirror)

	d.report(ctx, "append", key, out)
	return id, out
}

// Delete removes the document under key from the remote and resets the local
// mirror to emptyDoc. When emptyDoc is nil the local file is removed instead.
func (d *Dual) Delete(ctx context.Context, key string, emptyDoc []byte) Outcome {
	var out Outcome

	if d.remote != nil {
		out.RemoteTried = true
		out.RemoteErr = d.remote.Delete(ctx, key)
	}

	out.LocalTried = true
	if emptyDoc != nil {
		out.LocalErr = d.local.Put(ctx, key, emptyDoc)
	} else {
		out.LocalErr = d.local.Delete(ctx, key)
	}

	d.report(ctx, "delete", key, out)
	return out
}

func (d *Dual) report(ctx context.Context, op, key string, out Outcome) {
	switch out.Status() {
	case StatusApplied:
		return
	case StatusPartial:
		d.logger.Warn(ctx, "write persisted on one backend only",
			"op", op, "key", key, "remoteErr", out.RemoteErr, "localErr", out.LocalErr)
	case StatusFailed:
		d.logger.Error(ctx, "write persisted nowhere",
			"op", op, "key", key, "remoteErr", out.RemoteErr, "localErr", out.LocalErr)
	}
}
