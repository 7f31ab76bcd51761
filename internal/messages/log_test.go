package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"anonboard/internal/store"
)

func newLocalLog(t *testing.T) *Log {
	t.Helper()
	d := store.NewDual(nil, store.NewFile(filepath.Join(t.TempDir(), "database")), nil)
	return NewLog(d, nil)
}

func msg(id, author, content string) Message {
	return Message{ID: id, Author: author, Content: content, Timestamp: "12:00:00", Role: RoleUser}
}

func TestLog_AppendPreservesInsertionOrder(t *testing.T) {
	l := newLocalLog(t)
	ctx := context.Background()

	a, b, c := msg("1", "alice", "A"), msg("2", "bob", "B"), msg("3", "alice", "C")
	for _, m := range []Message{a, b, c} {
		out := l.Append(ctx, m)
		require.Equal(t, store.StatusApplied, out.Status())
	}

	require.Equal(t, []Message{a, b, c}, l.LoadAll(ctx))
}

func TestLog_RetentionCapDropsOldest(t *testing.T) {
	l := newLocalLog(t)
	l.cap = 10
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		l.Append(ctx, msg(fmt.Sprintf("%03d", i), "alice", fmt.Sprintf("m%d", i)))
	}

	all := l.LoadAll(ctx)
	require.Len(t, all, 10)
	require.Equal(t, "015", all[0].ID, "oldest surviving message")
	require.Equal(t, "024", all[9].ID, "newest message last")
}

func TestLog_ClearEmptiesTheCollection(t *testing.T) {
	l := newLocalLog(t)
	ctx := context.Background()

	l.Append(ctx, msg("1", "alice", "A"))
	require.Len(t, l.LoadAll(ctx), 1)

	out := l.Clear(ctx)
	require.Equal(t, store.StatusApplied, out.Status())
	require.Empty(t, l.LoadAll(ctx))
}

func TestLog_LoadAllEmptyStore(t *testing.T) {
	l := newLocalLog(t)
	all := l.LoadAll(context.Background())
	require.NotNil(t, all)
	require.Empty(t, all)
}

func TestLog_LoadAllNormalizesRemotePushForm(t *testing.T) {
	pushed := map[string]Message{
		"-Na": msg("1", "alice", "first"),
		"-Nc": msg("3", "alice", "third"),
		"-Nb": msg("2", "bob", "second"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pushed)
	}))
	defer srv.Close()

	d := store.NewDual(store.NewRemote(srv.URL, ""), store.NewFile(filepath.Join(t.TempDir(), "db")), nil)
	l := NewLog(d, nil)

	all := l.LoadAll(context.Background())
	require.Equal(t, []string{"first", "second", "third"}, contents(all))
}

func TestLog_AppendStillWorksWhenRemoteAlwaysFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := store.NewDual(store.NewRemote(srv.URL, ""), store.NewFile(filepath.Join(t.TempDir(), "db")), nil)
	l := NewLog(d, nil)
	ctx := context.Background()

	out := l.Append(ctx, msg("1", "alice", "A"))
	require.Equal(t, store.StatusPartial, out.Status())

	all := l.LoadAll(ctx)
	require.Equal(t, []string{"A"}, contents(all))
}

func TestRecent_Windowing(t *testing.T) {
	var all []Message
	for i := 0; i < 7; i++ {
		all = append(all, msg(fmt.Sprintf("%d", i), "alice", fmt.Sprintf("m%d", i)))
	}

	require.Len(t, Recent(all, 5), 5)
	require.Equal(t, "m2", Recent(all, 5)[0].Content)
	require.Equal(t, all, Recent(all, 50))
	require.Empty(t, Recent(nil, 50))
	require.Empty(t, Recent(all, 0))
}

func TestDecodeCollection_EnvelopeForm(t *testing.T) {
	data := []byte(`{"messages":[{"message_id":"1","user_id":"alice","content":"hi","timestamp":"10:00:00","role":"user"}]}`)
	all := decodeCollection(data)
	require.Len(t, all, 1)
	require.Equal(t, "hi", all[0].Content)
}

func contents(all []Message) []string {
	out := make([]string, 0, len(all))
	for _, m := range all {
		out = append(out, m.Content)
	}
	return out
}
