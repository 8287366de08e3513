package util

import (
	"math/rand"
	"sync"
	"time"
)

// lockedSource lets a single rand.Rand be shared by every virtual user of a load test.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

// Uint64 keeps Rand.Uint64 on the underlying source, so a seed gives the same values as an unshared Rand.
func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// Seed completes rand.Source. Runs are seeded once, in NewThreadsafeRand.
func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewThreadsafeRand returns a generator that goroutines may share. For a given seed it produces the
// sequence rand.New(rand.NewSource(seed)) would.
func NewThreadsafeRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}

// ResolveSeed returns seed unchanged unless it is zero, in which case a time based seed is returned.
// Callers should log the resolved value so that a run can be reproduced.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
