package client

import (
	"encoding/json"
	"os"
	"sync"
)

// Credentials are the persisted session: the bearer token and the minimal
// user profile the app needs before its first /user fetch.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CredentialStore persists credentials between runs. The file store is
// the desktop stand-in for the mobile app's local storage.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(creds *Credentials) error
	Clear() error
}

// MemoryStore keeps credentials for the process lifetime only.
type MemoryStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds, nil
}

func (s *MemoryStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}

// FileStore persists credentials as JSON on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *FileStore) Save(creds *Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SessionContext is the single owner of session state. Views consult it
// instead of reading shared storage directly, and subscribe for the forced
// logout a 401 response triggers.
type SessionContext struct {
	mu        sync.RWMutex
	store     CredentialStore
	creds     *Credentials
	listeners []func(authenticated bool)
}

// NewSessionContext loads any persisted credentials from the store.
func NewSessionContext(store CredentialStore) (*SessionContext, error) {
	creds, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &SessionContext{store: store, creds: creds}, nil
}

func (s *SessionContext) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds != nil && s.creds.Token != ""
}

func (s *SessionContext) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil
	}
	return s.creds.User
}

func (s *SessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

// OnSessionChange registers a listener invoked after login and logout.
func (s *SessionContext) OnSessionChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SessionContext) establish(token string, user *User) error {
	s.mu.Lock()
	creds := &Credentials{Token: token, User: user}
	s.creds = creds
	err := s.store.Save(creds)
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(true)
	}
	return err
}

// Clear drops the session and notifies listeners. Called by the client on
// a 401 response and by explicit logout.
func (s *SessionContext) Clear() error {
	s.mu.Lock()
	s.creds = nil
	err := s.store.Clear()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(false)
	}
	return err
}
