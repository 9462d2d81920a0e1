package realtime

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AMProject/global"
)

type fakeTransport struct {
	mu        sync.Mutex
	wrote     []Outbound
	failWrite bool

	frames chan []byte
	done   chan struct{}
	once   sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		frames: make(chan []byte, 8),
		done:   make(chan struct{}),
	}
}

func (t *fakeTransport) ReadMessage() ([]byte, error) {
	select {
	case f := <-t.frames:
		return f, nil
	case <-t.done:
		return nil, errors.New("transport closed")
	}
}

func (t *fakeTransport) WriteJSON(v any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrite {
		return errors.New("write failed")
	}
	if out, ok := v.(Outbound); ok {
		t.wrote = append(t.wrote, out)
	}
	return nil
}

func (t *fakeTransport) Close() error {
	t.once.Do(func() { close(t.done) })
	return nil
}

func (t *fakeTransport) sent() []Outbound {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Outbound, len(t.wrote))
	copy(out, t.wrote)
	return out
}

func testSession(t *testing.T) *global.Session {
	t.Helper()
	sess := global.NewSession(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, sess.Store(global.Identity{UserID: "u1", Token: "tok"}))
	return sess
}

// kindRecorder collects emissions and signals each arrival.
type kindRecorder struct {
	mu    sync.Mutex
	kinds []Kind
	ch    chan Kind
}

func recordAll(r *Router) *kindRecorder {
	rec := &kindRecorder{ch: make(chan Kind, 32)}
	h := func(ev Event) {
		rec.mu.Lock()
		rec.kinds = append(rec.kinds, ev.Kind())
		rec.mu.Unlock()
		rec.ch <- ev.Kind()
	}
	for _, k := range []Kind{
		KindConnected, KindDisconnected, KindReconnected,
		KindNewNotification, KindRefreshAssignments,
	} {
		r.On(k, h)
	}
	return rec
}

func (r *kindRecorder) wait(t *testing.T, want Kind) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case k := <-r.ch:
			if k == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func (r *kindRecorder) seen() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

func TestConnectAnnouncesIdentity(t *testing.T) {
	sess := testSession(t)
	router := NewRouter()
	rec := recordAll(router)
	tr := newFakeTransport()

	m := NewConnManager(ManagerConf{
		URL:  "ws://test",
		Dial: func(context.Context, string, string) (Transport, error) { return tr, nil },
	}, sess, router)
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	rec.wait(t, KindConnected)

	require.Equal(t, StateConnected, m.State())
	assert.True(t, sess.Connected())

	sent := tr.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "addUser", sent[0].Event)
	assert.Equal(t, presencePayload{UserID: "u1"}, sent[0].Data)
}

func TestConnectRefusesSecondSession(t *testing.T) {
	sess := testSession(t)
	m := NewConnManager(ManagerConf{
		Dial: func(context.Context, string, string) (Transport, error) { return newFakeTransport(), nil },
	}, sess, NewRouter())
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	assert.Error(t, m.Connect(context.Background()))
}

func TestAnnounceFailureTearsDown(t *testing.T) {
	sess := testSession(t)
	tr := newFakeTransport()
	tr.failWrite = true

	m := NewConnManager(ManagerConf{
		Dial: func(context.Context, string, string) (Transport, error) { return tr, nil },
	}, sess, NewRouter())

	require.Error(t, m.Connect(context.Background()))
	assert.Equal(t, StateDisconnected, m.State())
	assert.False(t, sess.Connected())
}

func TestReconnectReannouncesIdentity(t *testing.T) {
	sess := testSession(t)
	router := NewRouter()
	rec := recordAll(router)

	tr1, tr2 := newFakeTransport(), newFakeTransport()
	var mu sync.Mutex
	dials := 0
	dial := func(context.Context, string, string) (Transport, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials == 1 {
			return tr1, nil
		}
		return tr2, nil
	}

	m := NewConnManager(ManagerConf{
		Dial: dial,
		Reconnect: global.ReconnectConfig{
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			MaxAttempts:  5,
		},
	}, sess, router)
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	rec.wait(t, KindConnected)

	// kill the live transport; the read loop observes the loss
	_ = tr1.Close()
	rec.wait(t, KindDisconnected)
	rec.wait(t, KindReconnected)

	assert.True(t, sess.Connected())
	// the announce ran once per establishment, same frame both times
	require.Len(t, tr1.sent(), 1)
	require.Len(t, tr2.sent(), 1)
	assert.Equal(t, tr1.sent()[0], tr2.sent()[0])
}

func TestReconnectBudgetExhaustedIsTerminal(t *testing.T) {
	sess := testSession(t)
	router := NewRouter()

	terminal := make(chan Disconnected, 4)
	router.On(KindDisconnected, func(ev Event) {
		terminal <- ev.(Disconnected)
	})

	tr := newFakeTransport()
	var mu sync.Mutex
	dials := 0
	dial := func(context.Context, string, string) (Transport, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials == 1 {
			return tr, nil
		}
		return nil, errors.New("connection refused")
	}

	m := NewConnManager(ManagerConf{
		Dial: dial,
		Reconnect: global.ReconnectConfig{
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
			MaxAttempts:  2,
		},
	}, sess, router)
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	_ = tr.Close()

	// first the loss signal, then the terminal give-up
	var got []Disconnected
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case d := <-terminal:
			got = append(got, d)
		case <-deadline:
			t.Fatal("timed out waiting for terminal disconnect")
		}
	}
	assert.False(t, got[0].Terminal)
	assert.True(t, got[1].Terminal)
	assert.Equal(t, StateDisconnected, m.State())

	mu.Lock()
	defer mu.Unlock()
	// initial attempt plus the bounded retries, never more
	assert.Equal(t, 1+3, dials)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	sess := testSession(t)
	router := NewRouter()
	rec := recordAll(router)
	tr := newFakeTransport()

	m := NewConnManager(ManagerConf{
		Dial: func(context.Context, string, string) (Transport, error) { return tr, nil },
	}, sess, router)
	defer m.Close()

	require.NoError(t, m.Connect(context.Background()))
	rec.wait(t, KindConnected)

	tr.frames <- []byte(`{not json`)
	tr.frames <- []byte(`{"event": "noSuchEvent"}`)
	tr.frames <- []byte(`{"event": "refreshAssignments"}`)
	rec.wait(t, KindRefreshAssignments)

	assert.Equal(t, []Kind{KindConnected, KindRefreshAssignments}, rec.seen())
}

func TestNoEmissionsAfterClose(t *testing.T) {
	sess := testSession(t)
	router := NewRouter()
	rec := recordAll(router)
	tr := newFakeTransport()

	m := NewConnManager(ManagerConf{
		Dial: func(context.Context, string, string) (Transport, error) { return tr, nil },
	}, sess, router)

	require.NoError(t, m.Connect(context.Background()))
	rec.wait(t, KindConnected)

	m.Close()
	assert.False(t, sess.Connected())

	before := len(rec.seen())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, len(rec.seen()))

	assert.Error(t, m.Send(AddUser("u1")))
	assert.Error(t, m.Connect(context.Background()))
}
