package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no probes are recorded for the requested range.
	ErrNotFound = errors.New("no provider probes recorded")
)

// Probe is the outcome of one scheduled provider availability check.
type Probe struct {
	Provider  string        `json:"provider"`
	Query     string        `json:"query"`
	Timestamp time.Time     `json:"timestamp"` // always UTC
	OK        bool          `json:"ok"`
	Latency   time.Duration `json:"latencyNs"`
	Error     string        `json:"error,omitempty"`
}

// MemoryStore is a concurrency-safe in-memory probe history.
type MemoryStore struct {
	mu     sync.RWMutex
	probes []Probe

	// retention configuration
	maxHistory int           // max number of probes kept
	maxAge     time.Duration // optional max age for probes

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a probe and enforces retention.
func (s *MemoryStore) Save(p Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probes = append(s.probes, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.probes) > s.maxHistory {
		over := len(s.probes) - s.maxHistory
		s.probes = append([]Probe(nil), s.probes[over:]...)
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.probes); i++ {
			if !s.probes[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.probes = append([]Probe(nil), s.probes[i:]...)
		}
	}
}

// Latest returns the most recent probe.
func (s *MemoryStore) Latest() (Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.probes) == 0 {
		return Probe{}, ErrNotFound
	}
	return s.probes[len(s.probes)-1], nil
}

// Range returns all probes between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Probe
	for _, p := range s.probes {
		if !p.Timestamp.Before(from) && !p.Timestamp.After(to) {
			result = append(result, p)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
