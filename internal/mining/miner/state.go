package miner

import "sync"

// State is the single value DESIGN NOTES §9 calls for in place of the
// original process-globals: mapHashedBlocks lives here, mutex-guarded,
// shared by every worker the supervisor owns.
type State struct {
	mu            sync.Mutex
	hashedHeights map[int32]int64 // height -> unix-nano of the last hash attempt at that height
}

// NewState returns an empty, ready-to-use State.
func NewState() *State {
	return &State{hashedHeights: make(map[int32]int64)}
}

// RecentlyHashed reports whether height was hashed within minInterval
// nanoseconds of now, and records now as the latest attempt regardless.
func (s *State) RecentlyHashed(height int32, nowUnixNano, minInterval int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.hashedHeights[height]
	s.hashedHeights[height] = nowUnixNano
	return ok && nowUnixNano-last < minInterval
}
