package global

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"AMProject/tools/errs"
)

// Roles as the API reports them.
const (
	RoleAdmin  = "admin"
	RoleWriter = "writer"
	RoleUser   = "user"
)

// sessionFileName is the single well-known key under which the serialized
// session lives (the local analogue of the browser storage key).
const sessionFileName = "amclient_session.json"

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return sessionFileName
	}
	return filepath.Join(dir, "amclient", sessionFileName)
}

// Identity is the persisted part of a session: who is logged in and the
// bearer credential every API call carries.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// Session owns one authenticated identity and its persistence. It is created
// explicitly at boot and destroyed on logout; it is never ambient package
// state. The connectivity flag is a passive indicator fed by the realtime
// layer, readable by any view.
type Session struct {
	mu   sync.RWMutex
	path string
	id   Identity

	connected bool
}

func NewSession(path string) *Session {
	if path == "" {
		path = defaultSessionFile()
	}
	return &Session{path: path}
}

// Restore reads the persisted identity from disk. Returns false when no
// session file exists.
func (s *Session) Restore() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errs.Wrap(err, "read session file")
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return false, errs.Wrap(err, "decode session file")
	}
	s.id = id
	return true, nil
}

// Store writes the identity to disk; called on login and profile update.
func (s *Session) Store(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = id
	raw, err := json.MarshalIndent(&id, "", "  ")
	if err != nil {
		return errs.Wrap(err, "encode session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errs.Wrap(err, "create session dir")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errs.Wrap(err, "write session file")
	}
	return nil
}

// Clear wipes the identity in memory and on disk; called on logout.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = Identity{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(err, "remove session file")
	}
	return nil
}

func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id.UserID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id.Role
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id.Token
}

// Valid reports whether a credential is present and, when the token is a
// JWT with an exp claim, not expired. The signature is not checked here;
// the server remains the authority.
func (s *Session) Valid() bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tok, claims)
	if err != nil {
		// opaque token, let the server decide
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// SetConnected is fed by the realtime layer on state changes.
func (s *Session) SetConnected(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = ok
}

// Connected is the non-blocking connectivity indicator views render.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}
