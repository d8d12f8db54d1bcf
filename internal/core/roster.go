package core

import "github.com/samber/lo"

// Roster tracks live sessions in connect order and enforces username
// uniqueness across them.
type Roster struct {
	sessions []*Session
	byName   map[string]*Session
}

// NewRoster constructs an empty roster.
func NewRoster() *Roster {
	return &Roster{byName: make(map[string]*Session)}
}

// Add inserts a freshly connected, still unnamed session.
func (r *Roster) Add(s *Session) {
	r.sessions = append(r.sessions, s)
}

// Remove drops the session and releases its username, if bound.
func (r *Roster) Remove(s *Session) {
	r.sessions = lo.Without(r.sessions, s)
	if s.name != "" {
		delete(r.byName, s.name)
	}
}

// Bind sets the session's username, one time and irreversibly. Fails if any
// live session already holds the name.
func (r *Roster) Bind(s *Session, name string) *CoreError {
	if r.Taken(name) {
		return errNameTaken()
	}
	s.name = name
	r.byName[name] = s
	return nil
}

// Taken reports whether a live session holds the name.
func (r *Roster) Taken(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Lookup resolves a live session by exact username.
func (r *Roster) Lookup(name string) (*Session, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Len is the number of live sessions, named or not.
func (r *Roster) Len() int {
	return len(r.sessions)
}
