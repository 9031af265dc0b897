package web

import (
	"fmt"
	"sync"
)

// pairKey is a normalized unordered node-id pair: A < B always.
type pairKey struct {
	A, B int
}

// PairIndex is the deduplication set over unordered node-id pairs. For every
// live edge (a,b) exactly one of (a,b)/(b,a) is present, and a != b always.
// Membership is O(1) in both orientations because keys are normalized on the
// way in.
type PairIndex struct {
	mu    sync.RWMutex
	pairs map[pairKey]struct{}
}

// NewPairIndex creates an empty pair index.
func NewPairIndex() *PairIndex {
	return &PairIndex{pairs: make(map[pairKey]struct{})}
}

// normalizePair orders the two ids; ok is false for self-pairs.
func normalizePair(a, b int) (pairKey, bool) {
	if a == b {
		return pairKey{}, false
	}
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}, true
}

// TryInsert adds the unordered pair (a,b) and reports whether it was added.
// Self-pairs and pairs already present in either orientation are rejected.
func (pi *PairIndex) TryInsert(a, b int) bool {
	key, ok := normalizePair(a, b)
	if !ok {
		return false
	}

	pi.mu.Lock()
	defer pi.mu.Unlock()

	if _, exists := pi.pairs[key]; exists {
		return false
	}
	pi.pairs[key] = struct{}{}
	return true
}

// Contains reports whether (a,b) is present in either orientation.
func (pi *PairIndex) Contains(a, b int) bool {
	key, ok := normalizePair(a, b)
	if !ok {
		return false
	}

	pi.mu.RLock()
	defer pi.mu.RUnlock()

	_, exists := pi.pairs[key]
	return exists
}

// Remove deletes the pair (a,b). It panics if the pair is absent: every call
// site removes exactly the pair of an edge it just pruned, so a miss means
// the index and the edge arena have diverged.
func (pi *PairIndex) Remove(a, b int) {
	key, ok := normalizePair(a, b)
	if !ok {
		panic(fmt.Sprintf("web: removing self-pair (%d,%d) from pair index", a, b))
	}

	pi.mu.Lock()
	defer pi.mu.Unlock()

	if _, exists := pi.pairs[key]; !exists {
		panic(fmt.Sprintf("web: pair index missing entry for live edge (%d,%d)", a, b))
	}
	delete(pi.pairs, key)
}

// Len returns the number of pairs currently indexed.
func (pi *PairIndex) Len() int {
	pi.mu.RLock()
	defer pi.mu.RUnlock()
	return len(pi.pairs)
}
