package otp

import (
	"context"
	"sync"
	"time"

	"imobil/models"
)

type memoryEntry struct {
	otp      models.PendingOTP
	attempts int64
}

// MemoryStore is a single-process Store. Entries are reaped lazily once they
// are past expiry plus the retention window.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	retention time.Duration
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]*memoryEntry),
		retention: DefaultRetention,
		now:       time.Now,
	}
}

// WithClock overrides the time source used to stamp and reap entries.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Put(_ context.Context, phone, code string, ttl time.Duration) (models.PendingOTP, error) {
	issued := s.now()
	entry := models.PendingOTP{Phone: phone, Code: code, IssuedAt: issued, ExpiresAt: issued.Add(ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = &memoryEntry{otp: entry}
	return entry, nil
}

func (s *MemoryStore) Get(_ context.Context, phone string) (*models.PendingOTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(phone)
	if !ok {
		return nil, nil
	}
	out := e.otp
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[phone]
	delete(s.entries, phone)
	return ok, nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, phone string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(phone)
	if !ok {
		return 0, nil
	}
	e.attempts++
	return e.attempts, nil
}

// live must be called with mu held.
func (s *MemoryStore) live(phone string) (*memoryEntry, bool) {
	e, ok := s.entries[phone]
	if !ok {
		return nil, false
	}
	if s.now().After(e.otp.ExpiresAt.Add(s.retention)) {
		delete(s.entries, phone)
		return nil, false
	}
	return e, true
}
