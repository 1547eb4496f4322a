// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the store layer.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// GuestbookMessageMax caps livre d'or messages, in characters.
const GuestbookMessageMax = 1000

// Mailer dispatches the post-submission notifications. Both sends are
// best-effort: a failure is logged, never propagated as a use-case error.
type Mailer interface {
	SendGuestConfirmation(ctx context.Context, rec model.RsvpResponse) error
	SendOrganizerSummary(ctx context.Context, rec model.RsvpResponse) error
}

// Service orchestrates the RSVP flow, the capacity ledger, the guestbook
// and the stats aggregation.
type Service struct {
	store         store.Store
	mailer        Mailer
	totalCapacity int
	log           zerolog.Logger

	// Injection points for tests.
	now   func() time.Time
	newID func() string
}

// New constructs a Service. totalCapacity is the lodging pool size.
func New(st store.Store, mailer Mailer, totalCapacity int, log zerolog.Logger) *Service {
	return &Service{
		store:         st,
		mailer:        mailer,
		totalCapacity: totalCapacity,
		log:           log.With().Str("component", "service").Logger(),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// ─── Guest lookup ────────────────────────────────────────────────────────────

// GuestByID finds a guest by their opaque invitation id, case-insensitively.
func (s *Service) GuestByID(ctx context.Context, id string) (*model.Guest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("l'identifiant d'invitation est requis")
	}
	return s.store.FindGuestByID(ctx, id)
}

// GuestByName is the fallback path for guests without an id link.
func (s *Service) GuestByName(ctx context.Context, nom, prenom string) (*model.Guest, error) {
	nom, prenom = strings.TrimSpace(nom), strings.TrimSpace(prenom)
	if nom == "" || prenom == "" {
		return nil, invalid("le nom et le prénom sont requis")
	}
	return s.store.FindGuestByName(ctx, nom, prenom)
}

// LatestResponse returns a guest's most recent submission from the
// response log, or not-found when the guest exists but never answered.
func (s *Service) LatestResponse(ctx context.Context, id string) (*model.RsvpResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("l'identifiant d'invitation est requis")
	}
	return s.store.LatestResponse(ctx, id)
}

// ListGuests returns the guest list with emails redacted.
func (s *Service) ListGuests(ctx context.Context) ([]model.Guest, error) {
	guests, err := s.store.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	for i := range guests {
		guests[i] = guests[i].Redacted()
	}
	return guests, nil
}

// ─── RSVP submission ─────────────────────────────────────────────────────────

// SubmitRSVP runs one submission through the full flow: validate, identify,
// capacity-check, persist, notify. Terminal on first failure; notification
// failures are not failures.
func (s *Service) SubmitRSVP(ctx context.Context, req model.RsvpRequest) (*model.RsvpResult, error) {
	req = normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Identify: id first, nom/prenom as fallback. No partial state is
	// written when the guest is unknown.
	guest, err := s.identify(ctx, req)
	if err != nil {
		return nil, err
	}

	nbTotal := model.PartySize(req.Accompagnant, req.NombreEnfants)

	// Capacity gate, only when lodging is requested. This is check-then-act
	// over a shared spreadsheet with no locking: two concurrent submissions
	// near the limit can both pass and over-allocate. Accepted for a
	// low-traffic personal site.
	requiredSlots := 0
	if req.Hebergement {
		requiredSlots = nbTotal
		remaining, err := s.remaining(ctx)
		if err != nil {
			return nil, err
		}
		if requiredSlots > remaining {
			return nil, &CapacityError{Required: requiredSlots, Remaining: remaining}
		}
	}

	// Persist: response log first, then the guest record. Two writes, no
	// transaction; a crash in between leaves the log ahead of the record.
	now := s.now()
	rec := model.RsvpResponse{
		ID:             s.newID(),
		GuestID:        guest.ID,
		Nom:            guest.Nom,
		Prenom:         guest.Prenom,
		Email:          req.Email,
		Presence:       req.Presence,
		Accompagnant:   req.Accompagnant,
		PrenomConjoint: req.PrenomConjoint,
		Enfants:        req.Enfants,
		NombreEnfants:  req.NombreEnfants,
		NomsEnfants:    req.NomsEnfants,
		Allergies:      req.Allergies,
		Message:        req.Message,
		Hebergement:    req.Hebergement,
		NbTotal:        nbTotal,
		CreatedAt:      now,
	}
	if err := s.store.AppendResponse(ctx, rec); err != nil {
		return nil, err
	}

	err = s.store.UpdateGuestRSVP(ctx, guest.ID, store.GuestUpdate{
		Presence:       req.Presence,
		PrenomConjoint: req.PrenomConjoint,
		NombreEnfants:  req.NombreEnfants,
		NomsEnfants:    req.NomsEnfants,
		Allergies:      req.Allergies,
		Message:        req.Message,
		LodgingSlots:   requiredSlots,
		ConfirmedAt:    now,
	})
	if err != nil {
		// The log row is already committed and stays; reconciliation is
		// manual via the response log.
		s.log.Error().Err(err).Str("guest_id", guest.ID).
			Msg("response logged but guest record update failed")
		return nil, err
	}

	emailSent := s.notify(ctx, rec)

	s.log.Info().
		Str("guest_id", guest.ID).
		Bool("presence", req.Presence).
		Int("nb_total", nbTotal).
		Int("lodging_slots", requiredSlots).
		Bool("email_sent", emailSent).
		Msg("rsvp recorded")

	return &model.RsvpResult{Confirmed: true, NbTotal: nbTotal, EmailSent: emailSent}, nil
}

func normalizeRequest(req model.RsvpRequest) model.RsvpRequest {
	req.ID = strings.TrimSpace(req.ID)
	req.Nom = strings.TrimSpace(req.Nom)
	req.Prenom = strings.TrimSpace(req.Prenom)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.PrenomConjoint = strings.TrimSpace(req.PrenomConjoint)
	if !req.Accompagnant {
		req.PrenomConjoint = ""
	}
	if !req.Enfants || req.NombreEnfants < 0 {
		req.NombreEnfants = 0
		req.NomsEnfants = ""
	}
	// A declined invitation cannot hold lodging places.
	if !req.Presence {
		req.Hebergement = false
	}
	return req
}

func validateRequest(req model.RsvpRequest) error {
	if req.Nom == "" || req.Prenom == "" {
		return invalid("le nom et le prénom sont requis")
	}
	if req.Email == "" {
		return invalid("l'adresse email est requise")
	}
	if !strings.Contains(req.Email, "@") {
		return invalid("l'adresse email est invalide")
	}
	if req.Enfants && req.NombreEnfants == 0 {
		return invalid("le nombre d'enfants est requis")
	}
	return nil
}

func (s *Service) identify(ctx context.Context, req model.RsvpRequest) (*model.Guest, error) {
	if req.ID != "" {
		return s.store.FindGuestByID(ctx, req.ID)
	}
	return s.store.FindGuestByName(ctx, req.Nom, req.Prenom)
}

// notify fires both emails and reports whether the guest confirmation went
// out. Fire-and-forget with observability only, never a source of rollback.
func (s *Service) notify(ctx context.Context, rec model.RsvpResponse) bool {
	if s.mailer == nil {
		return false
	}
	sent := true
	if err := s.mailer.SendGuestConfirmation(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("guest_id", rec.GuestID).Msg("guest confirmation email failed")
		sent = false
	}
	if err := s.mailer.SendOrganizerSummary(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("guest_id", rec.GuestID).Msg("organizer summary email failed")
	}
	return sent
}

// ─── Capacity ledger ─────────────────────────────────────────────────────────

// remaining recomputes the ledger from scratch: total minus the sum of
// lodging places over confirmed guests, floored at zero.
func (s *Service) remaining(ctx context.Context) (int, error) {
	consumed, err := s.store.SumLodgingSlots(ctx)
	if err != nil {
		return 0, err
	}
	remaining := s.totalCapacity - consumed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Capacity reports the current lodging ledger state.
func (s *Service) Capacity(ctx context.Context) (*model.Capacity, error) {
	remaining, err := s.remaining(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Capacity{Remaining: remaining, Available: remaining > 0}, nil
}

// ─── Guestbook ───────────────────────────────────────────────────────────────

// SignGuestbook validates and stores one livre d'or message.
func (s *Service) SignGuestbook(ctx context.Context, req model.GuestbookRequest) (*model.GuestbookEntry, error) {
	req.Prenom = strings.TrimSpace(req.Prenom)
	req.Nom = strings.TrimSpace(req.Nom)
	req.Message = strings.TrimSpace(req.Message)
	if req.Prenom == "" {
		return nil, invalid("le prénom est requis")
	}
	if req.Message == "" {
		return nil, invalid("le message est requis")
	}
	if n := len([]rune(req.Message)); n > GuestbookMessageMax {
		return nil, invalid("le message dépasse %d caractères (%d)", GuestbookMessageMax, n)
	}

	entry := model.GuestbookEntry{
		ID:        s.newID(),
		Prenom:    req.Prenom,
		Nom:       req.Nom,
		Message:   req.Message,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Guestbook returns the latest entries, newest first.
func (s *Service) Guestbook(ctx context.Context, limit int) ([]model.GuestbookEntry, error) {
	return s.store.ListEntries(ctx, limit)
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats aggregates over the response log, keeping only the latest entry per
// guest so resubmissions are not double-counted. Recomputed per call.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	recs, err := s.store.ListResponses(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]model.RsvpResponse)
	for _, r := range recs {
		latest[strings.ToLower(r.GuestID)] = r
	}

	var stats model.Stats
	for _, r := range latest {
		if !r.Presence {
			continue
		}
		adults := 1
		if r.Accompagnant {
			adults++
		}
		stats.Adults += adults
		stats.Children += r.NombreEnfants
		stats.ConfirmedGuests += adults + r.NombreEnfants
	}
	return &stats, nil
}
