// Package memory is an in-memory store driver used in tests and for local
// development without Google or database credentials.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// Store keeps everything behind one RWMutex; good enough for a single
// process and deterministic in tests.
type Store struct {
	mu        sync.RWMutex
	guests    []model.Guest
	responses []model.RsvpResponse
	guestbook []model.GuestbookEntry
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Seed replaces the guest list. Intended for test setup and dev fixtures.
func (s *Store) Seed(guests ...model.Guest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guests = append([]model.Guest(nil), guests...)
}

func (s *Store) FindGuestByID(ctx context.Context, id string) (*model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.guests {
		if strings.EqualFold(g.ID, id) {
			cp := g
			return &cp, nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) FindGuestByName(ctx context.Context, nom, prenom string) (*model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.guests {
		if strings.EqualFold(g.Nom, nom) && strings.EqualFold(g.Prenom, prenom) {
			cp := g
			return &cp, nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) ListGuests(ctx context.Context) ([]model.Guest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Guest, len(s.guests))
	copy(out, s.guests)
	return out, nil
}

func (s *Store) UpdateGuestRSVP(ctx context.Context, id string, upd store.GuestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.guests {
		if !strings.EqualFold(g.ID, id) {
			continue
		}
		confirmedAt := upd.ConfirmedAt
		s.guests[i].Presence = upd.Presence
		s.guests[i].Confirmed = true
		s.guests[i].ConfirmedAt = &confirmedAt
		s.guests[i].PrenomConjoint = upd.PrenomConjoint
		s.guests[i].NombreEnfants = upd.NombreEnfants
		s.guests[i].NomsEnfants = upd.NomsEnfants
		s.guests[i].Allergies = upd.Allergies
		s.guests[i].Message = upd.Message
		s.guests[i].LodgingSlots = upd.LodgingSlots
		return nil
	}
	return store.ErrGuestNotFound
}

func (s *Store) AppendResponse(ctx context.Context, rec model.RsvpResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, rec)
	return nil
}

func (s *Store) ListResponses(ctx context.Context) ([]model.RsvpResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RsvpResponse, len(s.responses))
	copy(out, s.responses)
	return out, nil
}

func (s *Store) LatestResponse(ctx context.Context, guestID string) (*model.RsvpResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.responses) - 1; i >= 0; i-- {
		if strings.EqualFold(s.responses[i].GuestID, guestID) {
			cp := s.responses[i]
			return &cp, nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) SumLodgingSlots(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := 0
	for _, g := range s.guests {
		if g.Confirmed {
			sum += g.LodgingSlots
		}
	}
	return sum, nil
}

func (s *Store) AppendEntry(ctx context.Context, entry model.GuestbookEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guestbook = append(s.guestbook, entry)
	return nil
}

func (s *Store) ListEntries(ctx context.Context, limit int) ([]model.GuestbookEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.GuestbookEntry, 0, len(s.guestbook))
	for i := len(s.guestbook) - 1; i >= 0; i-- {
		out = append(out, s.guestbook[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
