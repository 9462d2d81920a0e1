package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"AMProject/global"
	"AMProject/logger"
	"AMProject/tools/safe"
)

// Session lifecycle states.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

type ManagerConf struct {
	URL       string
	Dial      Dialer // nil => DialWebsocket
	Reconnect global.ReconnectConfig
}

func (c *ManagerConf) norm() {
	if c.Dial == nil {
		c.Dial = DialWebsocket
	}
	if c.Reconnect.InitialDelay <= 0 {
		c.Reconnect.InitialDelay = time.Second
	}
	if c.Reconnect.MaxDelay <= 0 {
		c.Reconnect.MaxDelay = 30 * time.Second
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect.MaxAttempts = 12
	}
}

// ConnManager owns the one push-channel session of the authenticated
// identity: dial, identity announce, read loop, bounded reconnect, teardown.
// Handlers live in the Router and are untouched by reconnects. After Close
// returns, no handler is invoked again.
type ConnManager struct {
	conf   ManagerConf
	sess   *global.Session
	router *Router

	mu     sync.Mutex
	state  State
	tr     Transport
	gen    uint64 // bumped on every establishment/teardown; stale loops exit
	closed bool
}

func NewConnManager(conf ManagerConf, sess *global.Session, router *Router) *ConnManager {
	conf.norm()
	return &ConnManager{
		conf:   conf,
		sess:   sess,
		router: router,
	}
}

func (m *ConnManager) Router() *Router { return m.router }

func (m *ConnManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect opens the session. At most one session is live per identity: a
// second Connect while one is live is an error, not a second transport.
func (m *ConnManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("conn manager closed")
	}
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return errors.Errorf("session already %s", m.state)
	}
	m.state = StateConnecting
	m.mu.Unlock()

	tr, err := m.conf.Dial(ctx, m.conf.URL, m.sess.Token())
	if err != nil {
		m.mu.Lock()
		m.state = StateDisconnected
		m.mu.Unlock()
		return errors.Wrap(err, "connect push channel")
	}
	return m.establish(tr, false)
}

// establish installs tr as the live transport, announces identity and
// starts the read loop. The announce is idempotent server-side, so running
// it again after every reconnect is safe.
func (m *ConnManager) establish(tr Transport, resumed bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		_ = tr.Close()
		return errors.New("conn manager closed")
	}
	m.tr = tr
	m.gen++
	gen := m.gen
	m.state = StateConnected
	m.mu.Unlock()

	if err := tr.WriteJSON(AddUser(m.sess.UserID())); err != nil {
		m.mu.Lock()
		if m.gen == gen {
			m.gen++
			m.tr = nil
			m.state = StateDisconnected
		}
		m.mu.Unlock()
		_ = tr.Close()
		return errors.Wrap(err, "announce identity")
	}

	m.sess.SetConnected(true)
	if resumed {
		m.router.Emit(Reconnected{})
	} else {
		m.router.Emit(Connected{})
	}

	safe.SafeGo(func() { m.readLoop(tr, gen) })
	return nil
}

func (m *ConnManager) readLoop(tr Transport, gen uint64) {
	for {
		raw, err := tr.ReadMessage()
		if err != nil {
			m.onLoss(gen)
			return
		}
		if !m.current(gen) {
			return
		}
		ev, derr := DecodeEvent(raw)
		if derr != nil {
			// malformed frames are dropped, never fatal
			logger.Warnf("[realtime] drop event: %v", derr)
			continue
		}
		m.router.Emit(ev)
	}
}

func (m *ConnManager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && m.gen == gen
}

// onLoss handles a transport failure observed by the read loop of gen.
// Anything stale (already closed, already superseded) is ignored.
func (m *ConnManager) onLoss(gen uint64) {
	m.mu.Lock()
	if m.closed || m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.gen++
	tr := m.tr
	m.tr = nil
	m.state = StateReconnecting
	m.mu.Unlock()

	if tr != nil {
		_ = tr.Close()
	}
	m.sess.SetConnected(false)
	m.router.Emit(Disconnected{})

	safe.SafeGo(m.reconnectLoop)
}

// reconnectLoop retries with capped exponential backoff and a bounded
// attempt count; it never spins and never retries past the budget.
func (m *ConnManager) reconnectLoop() {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.conf.Reconnect.InitialDelay
	bo.MaxInterval = m.conf.Reconnect.MaxDelay
	bo.MaxElapsedTime = 0

	op := func() error {
		if m.isClosed() {
			return backoff.Permanent(errors.New("closed"))
		}
		tr, err := m.conf.Dial(context.Background(), m.conf.URL, m.sess.Token())
		if err != nil {
			logger.Warnf("[realtime] reconnect dial failed: %v", err)
			return err
		}
		return m.establish(tr, true)
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(bo, m.conf.Reconnect.MaxAttempts)); err != nil {
		if m.isClosed() {
			return
		}
		m.mu.Lock()
		m.state = StateDisconnected
		m.mu.Unlock()
		logger.Errorf("[realtime] reconnect budget exhausted: %v", err)
		m.router.Emit(Disconnected{Terminal: true})
	}
}

func (m *ConnManager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Send emits an outbound control frame on the live transport.
func (m *ConnManager) Send(out Outbound) error {
	m.mu.Lock()
	tr := m.tr
	st := m.state
	m.mu.Unlock()
	if st != StateConnected || tr == nil {
		return errors.Errorf("push channel %s", st)
	}
	return tr.WriteJSON(out)
}

// Close tears the session down deterministically: the transport is released
// and no router emission originates from this manager afterwards.
func (m *ConnManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.gen++
	tr := m.tr
	m.tr = nil
	m.state = StateDisconnected
	m.mu.Unlock()

	if tr != nil {
		_ = tr.Close()
	}
	m.sess.SetConnected(false)
}
