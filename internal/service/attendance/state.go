package attendance

import (
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
)

// replaceRecords builds the snapshot for a fresh fetch. Filters carry over.
func replaceRecords(prev attendance.ViewState, owner user.Identity, token uint64, records []attendance.Record, now time.Time) attendance.ViewState {
	sorted := SortNewestFirst(records)
	today := TodayFor(sorted, owner.SalesPersonName, now)

	return attendance.ViewState{
		Owner:     owner,
		Token:     token,
		Records:   sorted,
		Today:     today,
		History:   VisibleTo(sorted, owner),
		Session:   DeriveSession(today, now),
		Filters:   prev.Filters,
		FetchedAt: now,
	}
}

func setFilter(prev attendance.ViewState, filters attendance.FilterState) attendance.ViewState {
	next := prev
	next.Filters = filters
	return next
}

func clearFilters(prev attendance.ViewState) attendance.ViewState {
	return setFilter(prev, attendance.FilterState{})
}

// store holds one immutable snapshot per identity. Name and role together form the
// key since the visible history depends on both. Fetch results are applied only when
// their token is still the latest issued for that identity.
type store struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
	views  map[string]attendance.ViewState
}

func newStore() *store {
	return &store{
		latest: make(map[string]uint64),
		views:  make(map[string]attendance.ViewState),
	}
}

func storeKey(who user.Identity) string {
	return strings.ToLower(string(who.Role)) + "\x00" + who.SalesPersonName
}

// issue hands out a new request token for who.
func (s *store) issue(who user.Identity) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.latest[storeKey(who)] = s.next
	return s.next
}

func (s *store) get(who user.Identity) (attendance.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[storeKey(who)]
	return v, ok
}

// apply publishes the result of the fetch issued with token. It reports false and
// leaves the snapshot untouched when a later fetch was issued in the meantime.
func (s *store) apply(who user.Identity, token uint64, records []attendance.Record, now time.Time) (attendance.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(who)
	if s.latest[key] != token {
		return s.views[key], false
	}

	next := replaceRecords(s.views[key], who, token, records, now)
	s.views[key] = next
	return next, true
}

// update runs a filter transition on who's snapshot.
func (s *store) update(who user.Identity, transition func(attendance.ViewState) attendance.ViewState) attendance.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(who)
	prev, ok := s.views[key]
	if !ok {
		prev = attendance.ViewState{Owner: who}
	}

	next := transition(prev)
	s.views[key] = next
	return next
}

// owners lists every identity that has a snapshot.
func (s *store) owners() []user.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	owners := make([]user.Identity, 0, len(s.views))
	for _, v := range s.views {
		owners = append(owners, v.Owner)
	}
	return owners
}
