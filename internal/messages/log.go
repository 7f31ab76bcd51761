package messages

import (
	"context"
	"encoding/json"
	"sort"

	"anonboard/internal/common"
	"anonboard/internal/logging"
	"anonboard/internal/store"
)

const (
	// RetentionCap is the hard upper bound on stored messages; the oldest
	// entries are dropped on overflow.
	RetentionCap = 1000

	// UserWindow and AdminWindow are the recent-window sizes rendered to
	// regular users and to the admin panel.
	UserWindow  = 50
	AdminWindow = 20
)

// envelope is the on-disk document shape of the fallback mirror.
type envelope struct {
	Messages []Message `json:"messages"`
}

// Log is the retention- and ordering-aware wrapper over the dual store for
// the chat message collection.
type Log struct {
	store  *store.Dual
	logger logging.Logger
	cap    int
}

func NewLog(d *store.Dual, logger logging.Logger) *Log {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Log{store: d, logger: logger, cap: RetentionCap}
}

// LoadAll returns every stored message in insertion order. The remote stores
// the collection as a map keyed by opaque push ids whose natural ordering
// coincides with append order; the fallback mirror stores an envelope with a
// plain list. Both shapes, plus a bare array, are normalized here. Absence
// of data and backend failure both yield an empty sequence.
func (l *Log) LoadAll(ctx context.Context) []Message {
	data, _ := l.store.Get(ctx, common.CollectionMessages)
	return decodeCollection(data)
}

// Append adds m to the log: atomic push on the remote, read-modify-write on
// the fallback mirror with the retention cap applied. The read-modify-write
// is not atomic across processes; a lost mirror update is an accepted risk
// at this scale.
func (l *Log) Append(ctx context.Context, m Message) store.Outcome {
	all := append(l.LoadAll(ctx), m)
	if len(all) > l.cap {
		all = all[len(all)-l.cap:]
	}

	item, err := json.Marshal(m)
	if err != nil {
		l.logger.Error(ctx, "marshal message", "err", err)
		return store.Outcome{}
	}
	mirror, err := json.MarshalIndent(envelope{Messages: all}, "", "  ")
	if err != nil {
		l.logger.Error(ctx, "marshal message mirror", "err", err)
		return store.Outcome{}
	}

	_, out := l.store.Append(ctx, common.CollectionMessages, item, mirror)
	return out
}

// Clear replaces the whole collection with an empty sequence on both
// backends.
func (l *Log) Clear(ctx context.Context) store.Outcome {
	empty, _ := json.MarshalIndent(envelope{Messages: []Message{}}, "", "  ")
	return l.store.Delete(ctx, common.CollectionMessages, empty)
}

// Recent returns the last n messages of the given sequence, oldest first.
func Recent(all []Message, n int) []Message {
	if n < 0 {
		n = 0
	}
	if len(all) > n {
		return all[len(all)-n:]
	}
	return all
}

func decodeCollection(data []byte) []Message {
	if len(data) == 0 {
		return []Message{}
	}

	// Bare array.
	var list []Message
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			return []Message{}
		}
		return list
	}

	// Remote push form: map of generated child key to message. Child keys
	// sort in generation order.
	var pushed map[string]Message
	if err := json.Unmarshal(data, &pushed); err == nil && len(pushed) > 0 {
		keys := make([]string, 0, len(pushed))
		for k := range pushed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]Message, 0, len(keys))
		for _, k := range keys {
			out = append(out, pushed[k])
		}
		return out
	}

	// Fallback mirror envelope.
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Messages != nil {
		return env.Messages
	}

	return []Message{}
}
