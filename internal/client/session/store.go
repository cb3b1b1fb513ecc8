package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/logging"
)

// Manager is the contract consumed by the auth flow and the CLI.
type Manager interface {
	Credential() (string, bool)
	Profile() (*Profile, bool)
	SetSession(ctx context.Context, credential string, profile *Profile) error
	Clear(ctx context.Context) error
	Subscribe(observer func()) (unsubscribe func())
}

// Snapshot is the externally observable credential/profile pair.
type Snapshot struct {
	Credential string
	Profile    *Profile
}

func (s Snapshot) IsAuthenticated() bool {
	return s.Credential != "" && s.Profile != nil
}

type Store struct {
	storage Storage
	logger  logging.Logger
	now     func() time.Time

	// writeMu serializes persist+swap so storage and memory agree.
	writeMu sync.Mutex

	mu         sync.RWMutex
	credential string
	profile    *Profile
	observers  map[uint64]func()
	nextID     uint64
}

var _ Manager = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the clock used to judge credential expiry at startup.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds a store and loads the persisted session. Corrupted or expired
// entries are removed and the store starts logged out; New itself never
// fails on bad data.
func New(ctx context.Context, storage Storage, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		logger:    logger,
		now:       time.Now,
		observers: make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	rawCredential, rawProfile, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to read stored session", "error", err)
		return
	}
	if len(rawCredential) == 0 || len(rawProfile) == 0 {
		return
	}

	var p *Profile
	if err := json.Unmarshal(rawProfile, &p); err != nil {
		s.discard(ctx, "stored profile is corrupted", err)
		return
	}
	if err := p.validate(); err != nil {
		s.discard(ctx, "stored profile is corrupted", err)
		return
	}

	credential := string(rawCredential)
	if credentialExpired(credential, s.now()) {
		s.discard(ctx, "stored credential has expired", nil)
		return
	}

	s.credential = credential
	s.profile = p
}

func (s *Store) discard(ctx context.Context, reason string, cause error) {
	args := []any{}
	if cause != nil {
		args = append(args, "error", cause)
	}
	s.logger.Warn(ctx, reason+", starting logged out", args...)

	if err := s.storage.Remove(ctx); err != nil {
		s.logger.Error(ctx, "failed to remove stored session", "error", err)
	}
}

func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, false
	}
	p := *s.profile
	return &p, true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Credential: s.credential}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

func (s *Store) IsAdmin() bool {
	snap := s.Snapshot()
	return snap.IsAuthenticated() && snap.Profile.IsAdmin()
}

// Token is a credential source for the HTTP transport.
func (s *Store) Token() string {
	c, _ := s.Credential()
	return c
}

// SetSession persists both values and then replaces the in-memory pair.
// An empty credential or a nil profile is treated as Clear. On a storage
// error nothing changes and nobody is notified.
func (s *Store) SetSession(ctx context.Context, credential string, profile *Profile) error {
	if credential == "" || profile == nil {
		return s.Clear(ctx)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	s.writeMu.Lock()
	if err := s.storage.Save(ctx, []byte(credential), raw); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}

	p := *profile
	s.mu.Lock()
	s.credential = credential
	s.profile = p
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.notify()
	return nil
}

// Clear logs out. Memory is emptied and observers are notified even when
// removing the stored entries fails; that error is still returned.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	err := s.storage.Remove(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to remove stored session", "error", err)
		err = fmt.Errorf("remove session: %w", err)
	}

	s.mu.Lock()
	s.credential = ""
	s.profile = nil
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.notify()
	return err
}

// Subscribe registers observer and returns its own unsubscribe function.
// Registering the same function twice yields two independent subscriptions.
func (s *Store) Subscribe(observer func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = observer
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// notify calls observers in registration order without holding mu, so an
// observer may read the store.
func (s *Store) notify() {
	s.mu.RLock()
	ids := make([]uint64, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]func(), 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	s.mu.RUnlock()

	for _, o := range observers {
		o()
	}
}
