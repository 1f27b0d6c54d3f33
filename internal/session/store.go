package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avicena/avicena/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketSession = []byte("session")

	keyToken = []byte("token")
	keyUser  = []byte("user")
)

// Store persists the bearer token and the logged-in user record across runs.
// It is constructed once at startup and passed by reference; writes are
// overwrite-only, there is no merge and no client-side expiry tracking.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory copy so every outgoing request doesn't hit the database
	token string
	user  *domain.User
}

// NewStore opens the session database at path. An empty path yields a
// memory-only store (used in tests).
func NewStore(path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// load restores the persisted session into memory at startup.
func (s *Store) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if v := b.Get(keyToken); v != nil {
			s.token = string(v)
		}
		if v := b.Get(keyUser); v != nil {
			var u domain.User
			if err := json.Unmarshal(v, &u); err == nil {
				s.user = &u
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the stored user record, or nil when logged out.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a token is stored.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// Set persists the token and user record, replacing any previous session.
func (s *Store) Set(token string, user *domain.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Put(keyToken, []byte(token)); err != nil {
			return err
		}
		return b.Put(keyUser, data)
	})
}

// Clear removes the token and user record. Called on logout and on any
// 401 response.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyUser)
	})
}
