package journal

import "sync"

// Store holds the session's DocumentState and notifies subscribers after
// every mutation. It replaces the cross-component signaling the source app
// did through global flags: a color picker change provokes a repaint because
// the render surface subscribes, not because anyone polls a global.
type Store struct {
	mu           sync.Mutex
	doc          DocumentState
	colorVersion int
	nextSub      int
	subs         map[int]func(DocumentState)
}

// NewStore creates a store seeded with the given document.
func NewStore(doc DocumentState) *Store {
	return &Store{doc: doc, subs: map[int]func(DocumentState){}}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() DocumentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Update applies fn to the document and notifies subscribers.
func (s *Store) Update(fn func(*DocumentState)) {
	s.mu.Lock()
	fn(&s.doc)
	doc := s.doc.Clone()
	subs := s.subscribers()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(doc)
	}
}

// Subscribe registers a callback invoked after every mutation. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(DocumentState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// ColorVersion returns a token identifying the current explicit color
// choice. Palette extraction records it before starting work.
func (s *Store) ColorVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colorVersion
}

// SetColors records an explicit user color choice.
func (s *Store) SetColors(colors TextColors) {
	s.mu.Lock()
	s.doc.Colors = colors
	s.colorVersion++
	doc := s.doc.Clone()
	subs := s.subscribers()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(doc)
	}
}

// SeedColors applies extraction-derived colors only if the user has not
// explicitly chosen colors since baseVersion was read. A stale seed is
// dropped silently; extraction results suggest, they never override.
func (s *Store) SeedColors(colors TextColors, baseVersion int) bool {
	s.mu.Lock()
	if s.colorVersion != baseVersion {
		s.mu.Unlock()
		return false
	}
	s.doc.Colors = colors
	doc := s.doc.Clone()
	subs := s.subscribers()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(doc)
	}
	return true
}

// subscribers returns the callbacks under the lock; notification happens
// after release so a subscriber may call back into the store.
func (s *Store) subscribers() []func(DocumentState) {
	out := make([]func(DocumentState), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
