package search

import (
	"sync"
	"time"

	"github.com/corsinf/usuarios-api/internal/models"
)

// Criteria is the filter a session accumulates results for. Changing it
// resets the session.
type Criteria struct {
	Field models.SearchField
	Text  string
}

// Page is a read-only snapshot handed to callers: the accumulated result
// set so far plus the last-page marker.
type Page struct {
	Records    []*models.User
	IsLastPage bool
}

// Session tracks pagination state for one logical caller. Results append
// across pages until the criteria change; page fetches are serialized by
// an in-flight guard and a generation counter discards results that
// arrive after the criteria they were fetched for were superseded.
type Session struct {
	mu          sync.Mutex
	id          string
	criteria    Criteria
	pageSize    int
	page        int // last applied page, 0 before the first fetch
	accumulated []*models.User
	isLastPage  bool
	inFlight    bool
	generation  uint64
	lastUsed    time.Time
}

func newSession(id string, pageSize int, criteria Criteria) *Session {
	return &Session{
		id:       id,
		criteria: criteria,
		pageSize: pageSize,
		lastUsed: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) PageSize() int { return s.pageSize }

// Criteria returns the filter the session currently accumulates for.
func (s *Session) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Reset clears the accumulation and rewinds to page 1 for new criteria.
// Bumping the generation makes any in-flight fetch result stale.
func (s *Session) Reset(criteria Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(criteria)
}

func (s *Session) resetLocked(criteria Criteria) {
	s.criteria = criteria
	s.page = 0
	s.accumulated = nil
	s.isLastPage = false
	s.inFlight = false
	s.generation++
	s.lastUsed = time.Now()
}

// StartFetch validates and claims a page fetch. Page 1 restarts the
// accumulation under the current criteria; any other page must be exactly
// the next one, and only while the last page has not been reached. The
// returned generation must be passed back to Complete or Abort.
func (s *Session) StartFetch(page int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return 0, models.ErrFetchInFlight
	}

	switch {
	case page == 1:
		if s.page != 0 {
			s.resetLocked(s.criteria)
		}
	case page != s.page+1:
		return 0, models.ErrPageOutOfOrder
	case s.isLastPage:
		return 0, models.ErrLastPage
	}

	s.inFlight = true
	s.lastUsed = time.Now()
	return s.generation, nil
}

// Complete applies a fetched page. Results from a superseded generation
// are discarded, not appended. Returns the post-apply snapshot and
// whether the page was applied.
func (s *Session) Complete(gen uint64, page int, records []*models.User) (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return s.snapshotLocked(), false
	}

	s.inFlight = false
	s.page = page
	s.accumulated = append(s.accumulated, records...)
	s.isLastPage = len(records) < s.pageSize
	s.lastUsed = time.Now()

	return s.snapshotLocked(), true
}

// Abort releases the in-flight claim after a failed fetch.
func (s *Session) Abort(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.generation {
		s.inFlight = false
	}
}

// Snapshot returns a copy of the accumulated result set.
func (s *Session) Snapshot() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Page {
	records := make([]*models.User, len(s.accumulated))
	copy(records, s.accumulated)
	return Page{Records: records, IsLastPage: s.isLastPage}
}

// Lookup finds a user by id within the accumulated result set. This is a
// read against the client-visible cache, not the authoritative store.
func (s *Session) Lookup(id int) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.accumulated {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}
