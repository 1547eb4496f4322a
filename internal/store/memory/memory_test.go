package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

func TestFindGuestByIDIsCaseInsensitive(t *testing.T) {
	s := New()
	s.Seed(model.Guest{ID: "abc1", Nom: "Martin", Prenom: "Julie"})

	for _, id := range []string{"abc1", "ABC1", "Abc1"} {
		g, err := s.FindGuestByID(context.Background(), id)
		if err != nil {
			t.Fatalf("FindGuestByID(%q): %v", id, err)
		}
		if g.ID != "abc1" {
			t.Errorf("FindGuestByID(%q) = %q, want abc1", id, g.ID)
		}
	}
}

func TestFindGuestByIDNotFound(t *testing.T) {
	s := New()
	s.Seed(model.Guest{ID: "abc1"})

	_, err := s.FindGuestByID(context.Background(), "zzz9")
	if !errors.Is(err, store.ErrGuestNotFound) {
		t.Fatalf("err = %v, want ErrGuestNotFound", err)
	}
}

func TestFindGuestByName(t *testing.T) {
	s := New()
	s.Seed(model.Guest{ID: "g1", Nom: "Martin", Prenom: "Julie"})

	g, err := s.FindGuestByName(context.Background(), "MARTIN", "julie")
	if err != nil {
		t.Fatalf("FindGuestByName: %v", err)
	}
	if g.ID != "g1" {
		t.Errorf("ID = %q, want g1", g.ID)
	}

	if _, err := s.FindGuestByName(context.Background(), "Durand", "Paul"); !errors.Is(err, store.ErrGuestNotFound) {
		t.Errorf("unknown name: err = %v, want ErrGuestNotFound", err)
	}
}

func TestUpdateGuestRSVP(t *testing.T) {
	s := New()
	s.Seed(model.Guest{ID: "g1", Nom: "Martin", Prenom: "Julie"})

	when := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	err := s.UpdateGuestRSVP(context.Background(), "G1", store.GuestUpdate{
		Presence:       true,
		PrenomConjoint: "Marc",
		NombreEnfants:  2,
		LodgingSlots:   4,
		ConfirmedAt:    when,
	})
	if err != nil {
		t.Fatalf("UpdateGuestRSVP: %v", err)
	}

	g, err := s.FindGuestByID(context.Background(), "g1")
	if err != nil {
		t.Fatalf("FindGuestByID: %v", err)
	}
	if !g.Confirmed {
		t.Error("guest not marked confirmed")
	}
	if g.ConfirmedAt == nil || !g.ConfirmedAt.Equal(when) {
		t.Errorf("ConfirmedAt = %v, want %v", g.ConfirmedAt, when)
	}
	if g.PrenomConjoint != "Marc" || g.NombreEnfants != 2 || g.LodgingSlots != 4 {
		t.Errorf("unexpected guest after update: %+v", g)
	}
	if !g.Presence {
		t.Error("attendance not stored on the guest record")
	}

	if err := s.UpdateGuestRSVP(context.Background(), "nope", store.GuestUpdate{}); !errors.Is(err, store.ErrGuestNotFound) {
		t.Errorf("unknown id: err = %v, want ErrGuestNotFound", err)
	}
}

func TestUpdateGuestRSVPRecordsDecline(t *testing.T) {
	s := New()
	s.Seed(model.Guest{ID: "g1", Nom: "Martin", Prenom: "Julie"})
	ctx := context.Background()

	if err := s.UpdateGuestRSVP(ctx, "g1", store.GuestUpdate{Presence: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateGuestRSVP(ctx, "g1", store.GuestUpdate{Presence: false}); err != nil {
		t.Fatal(err)
	}

	g, err := s.FindGuestByID(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Presence {
		t.Error("guest record still shows attendance after a decline")
	}
	if !g.Confirmed {
		t.Error("a decline is still a recorded answer")
	}
}

func TestLatestResponseReturnsMostRecent(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := model.RsvpResponse{ID: "r1", GuestID: "g1", NbTotal: 1}
	second := model.RsvpResponse{ID: "r2", GuestID: "G1", NbTotal: 3}
	if err := s.AppendResponse(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendResponse(ctx, second); err != nil {
		t.Fatal(err)
	}

	latest, err := s.LatestResponse(ctx, "g1")
	if err != nil {
		t.Fatalf("LatestResponse: %v", err)
	}
	if latest.ID != "r2" {
		t.Errorf("latest.ID = %q, want r2", latest.ID)
	}

	recs, err := s.ListResponses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("log has %d entries, want 2", len(recs))
	}
}

func TestSumLodgingSlotsCountsOnlyConfirmed(t *testing.T) {
	s := New()
	s.Seed(
		model.Guest{ID: "g1", Confirmed: true, LodgingSlots: 3},
		model.Guest{ID: "g2", Confirmed: false, LodgingSlots: 2},
		model.Guest{ID: "g3", Confirmed: true, LodgingSlots: 5},
	)

	sum, err := s.SumLodgingSlots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum != 8 {
		t.Errorf("sum = %d, want 8", sum)
	}
}

func TestListEntriesNewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"e1", "e2", "e3"} {
		if err := s.AppendEntry(ctx, model.GuestbookEntry{ID: id, Prenom: "A", Message: "coucou"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.ListEntries(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "e3" || entries[1].ID != "e2" {
		t.Errorf("order = [%s %s], want [e3 e2]", entries[0].ID, entries[1].ID)
	}
}
