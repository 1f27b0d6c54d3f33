package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Tag relates cached reads to the writes that must invalidate them.
type Tag string

// Resource tags shared by the service layer.
const (
	TagClinics             Tag = "Clinics"
	TagDoctors             Tag = "Doctors"
	TagSchedules           Tag = "Schedules"
	TagScheduleExceptions  Tag = "ScheduleExceptions"
	TagAppointments        Tag = "Appointments"
	TagPatients            Tag = "Patients"
	TagPatientAppointments Tag = "PatientAppointments"
	TagRoles               Tag = "Roles"
	TagSpecializations     Tag = "Specializations"
)

// PatientTag returns the per-patient sub-tag for one patient's appointment
// list, so a related mutation refetches only that patient's rows while the
// broad tag still allows blanket invalidation.
func PatientTag(patientID string) Tag {
	return Tag("Patient:" + patientID)
}

// Key identifies one cache entry: operation name + serialized arguments.
type Key string

// NewKey builds a cache key from an operation name and its arguments.
// Arguments are JSON-serialized so identical calls share an entry.
func NewKey(operation string, args any) Key {
	if args == nil {
		return Key(operation)
	}
	data, err := json.Marshal(args)
	if err != nil {
		return Key(fmt.Sprintf("%s|%+v", operation, args))
	}
	return Key(operation + "|" + string(data))
}

// Status of a cache entry.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

type entry struct {
	status      Status
	data        any
	err         error
	tags        []Tag
	stale       bool
	subscribers int
	done        chan struct{} // closed when the in-flight fetch settles
}

// Store is the process-wide response cache with tag-based invalidation.
// It is an owned singleton constructed at startup, never an ambient
// global, so tests get isolation from fresh instances. A mutex guards it
// because fetches run on bubbletea command goroutines.
type Store struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	byTag    map[Tag]map[Key]struct{}
	watchers []chan<- Tag
	gcGrace  time.Duration
	logger   *slog.Logger
}

// NewStore creates an empty cache store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		entries: make(map[Key]*entry),
		byTag:   make(map[Tag]map[Key]struct{}),
		gcGrace: 30 * time.Second,
		logger:  logger,
	}
}

// SetGCGrace overrides how long an unsubscribed entry survives before
// collection. Used by tests.
func (s *Store) SetGCGrace(d time.Duration) {
	s.mu.Lock()
	s.gcGrace = d
	s.mu.Unlock()
}

// Watch registers a channel that receives every invalidated tag. Sends
// never block; a slow receiver misses notifications rather than stalling
// a mutation.
func (s *Store) Watch(ch chan<- Tag) {
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
}

// Subscribe records interest in a cache entry and returns a release
// function. When the last subscriber releases, the entry is collected
// after the grace period. Releasing twice is a no-op.
func (s *Store) Subscribe(key Key) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{status: StatusPending, stale: true}
		s.entries[key] = e
	}
	e.subscribers++

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			e.subscribers--
			if e.subscribers <= 0 {
				s.scheduleGC(key)
			}
		})
	}
}

// scheduleGC drops the entry after the grace period unless it picked up
// a new subscriber. Caller holds the lock.
func (s *Store) scheduleGC(key Key) {
	grace := s.gcGrace
	time.AfterFunc(grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e, ok := s.entries[key]
		if !ok || e.subscribers > 0 {
			return
		}
		s.removeLocked(key)
	})
}

// removeLocked deletes an entry and its tag index rows. Caller holds the lock.
func (s *Store) removeLocked(key Key) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	for _, tag := range e.tags {
		if keys, ok := s.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
	delete(s.entries, key)
}

// Invalidate marks every entry carrying any of the tags stale and
// notifies watchers. Subscribed reads refetch on their next access;
// this is the only propagation mechanism in the system.
func (s *Store) Invalidate(tags ...Tag) {
	s.mu.Lock()
	for _, tag := range tags {
		for key := range s.byTag[tag] {
			if e, ok := s.entries[key]; ok {
				e.stale = true
			}
		}
	}
	watchers := make([]chan<- Tag, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	s.logger.Debug("cache invalidated", "tags", tags)

	for _, tag := range tags {
		for _, ch := range watchers {
			select {
			case ch <- tag:
			default:
			}
		}
	}
}

// InvalidateAll drops every entry. Used at logout so the next login
// starts from an empty cache.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[Key]*entry)
	s.byTag = make(map[Tag]map[Key]struct{})
	s.mu.Unlock()
}

// Status reports the state of a cache entry; ok is false for a missing key.
func (s *Store) Status(key Key) (status Status, stale bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, found := s.entries[key]
	if !found {
		return 0, false, false
	}
	return e.status, e.stale, true
}

// begin claims the key for a fetch, or returns the entry to wait on when
// a usable result or an in-flight fetch already exists.
func (s *Store) begin(key Key, tags []Tag) (e *entry, owner bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok {
		switch {
		case e.status == StatusPending && e.done != nil:
			// A fetch is already in flight: join it (one network call
			// for concurrent identical reads).
			return e, false
		case e.status == StatusSuccess && !e.stale:
			return e, false
		}
	} else {
		e = &entry{}
		s.entries[key] = e
	}

	e.status = StatusPending
	e.stale = false
	e.err = nil
	e.done = make(chan struct{})
	e.tags = tags
	for _, tag := range tags {
		if s.byTag[tag] == nil {
			s.byTag[tag] = make(map[Key]struct{})
		}
		s.byTag[tag][key] = struct{}{}
	}
	return e, true
}

// settle records a fetch result and wakes joined readers.
func (s *Store) settle(e *entry, data any, err error) {
	s.mu.Lock()
	if err != nil {
		e.status = StatusError
		e.err = err
		e.data = nil
	} else {
		e.status = StatusSuccess
		e.data = data
	}
	done := e.done
	e.done = nil
	s.mu.Unlock()
	close(done)
}

// read returns the settled result of an entry.
func (s *Store) read(e *entry) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.data, e.err
}

// Fetch resolves a read through the cache. A fresh entry is returned
// without a network call; identical concurrent reads share one call; a
// stale, errored, or missing entry triggers fn exactly once. fn's error
// is cached and returned to every joined caller — never retried here.
func Fetch[T any](ctx context.Context, s *Store, key Key, tags []Tag, fn func(ctx context.Context) (T, error)) (T, error) {
	e, owner := s.begin(key, tags)

	if owner {
		data, err := fn(ctx)
		if err != nil {
			var zero T
			s.settle(e, nil, err)
			return zero, err
		}
		s.settle(e, data, nil)
		return data, nil
	}

	// Joined: wait for the in-flight fetch if there is one.
	s.mu.Lock()
	done := e.done
	s.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	data, err := s.read(e)
	if err != nil {
		var zero T
		return zero, err
	}
	result, ok := data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T", key, data)
	}
	return result, nil
}

// Mutate runs a write and, only on success, invalidates the given tags so
// dependent reads refetch. Errors pass through untouched.
func Mutate[T any](ctx context.Context, s *Store, fn func(ctx context.Context) (T, error), tags ...Tag) (T, error) {
	result, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.Invalidate(tags...)
	return result, nil
}
