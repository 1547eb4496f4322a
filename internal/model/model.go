// Package model defines the core domain types for the wedding RSVP backend.
package model

import "time"

// Guest represents one invitee/party on the guest list. Guests are seeded
// into the store before the site opens; the RSVP flow only mutates them.
type Guest struct {
	ID             string     `json:"id"`
	Nom            string     `json:"nom"`
	Prenom         string     `json:"prenom"`
	Email          string     `json:"email,omitempty"`
	Presence       bool       `json:"presence"`
	Confirmed      bool       `json:"confirme"`
	ConfirmedAt    *time.Time `json:"dateConfirmation,omitempty"`
	PrenomConjoint string     `json:"prenomConjoint,omitempty"`
	NombreEnfants  int        `json:"nombreEnfants,omitempty"`
	NomsEnfants    string     `json:"nomsEnfants,omitempty"`
	Allergies      string     `json:"allergies,omitempty"`
	Message        string     `json:"message,omitempty"`
	// LodgingSlots is the number of lodging places this party consumes
	// once confirmed. Zero when no lodging was requested.
	LodgingSlots int `json:"placesHebergement,omitempty"`
}

// Redacted returns a copy safe for list contexts: the email is the only
// semi-sensitive field and is never echoed outside a single-guest lookup.
func (g Guest) Redacted() Guest {
	g.Email = ""
	return g
}

// RsvpResponse is one append-only log entry capturing a submission snapshot.
// The guest record holds latest state; this log is the audit trail.
type RsvpResponse struct {
	ID             string    `json:"id"`
	GuestID        string    `json:"guestId"`
	Nom            string    `json:"nom"`
	Prenom         string    `json:"prenom"`
	Email          string    `json:"email"`
	Presence       bool      `json:"presence"`
	Accompagnant   bool      `json:"accompagnant"`
	PrenomConjoint string    `json:"prenomConjoint,omitempty"`
	Enfants        bool      `json:"enfants"`
	NombreEnfants  int       `json:"nombreEnfants"`
	NomsEnfants    string    `json:"nomsEnfants,omitempty"`
	Allergies      string    `json:"allergies,omitempty"`
	Message        string    `json:"message,omitempty"`
	Hebergement    bool      `json:"hebergement"`
	NbTotal        int       `json:"nbTotal"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PartySize computes the number of people covered by a submission:
// the primary guest, plus one for a companion, plus the children.
func PartySize(accompagnant bool, nombreEnfants int) int {
	size := 1
	if accompagnant {
		size++
	}
	if nombreEnfants > 0 {
		size += nombreEnfants
	}
	return size
}

// RsvpRequest is the payload for submitting a response.
type RsvpRequest struct {
	ID             string `json:"id"`
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	Email          string `json:"email"`
	Presence       bool   `json:"presence"`
	Accompagnant   bool   `json:"accompagnant"`
	PrenomConjoint string `json:"prenomConjoint"`
	Enfants        bool   `json:"enfants"`
	NombreEnfants  int    `json:"nombreEnfants"`
	NomsEnfants    string `json:"nomsEnfants"`
	Allergies      string `json:"allergies"`
	Message        string `json:"message"`
	Hebergement    bool   `json:"hebergement"`
}

// RsvpResult summarises a successful submission.
type RsvpResult struct {
	Confirmed bool `json:"confirme"`
	NbTotal   int  `json:"nbTotal"`
	EmailSent bool `json:"emailEnvoye"`
}

// GuestbookEntry is one message in the livre d'or.
type GuestbookEntry struct {
	ID        string    `json:"id"`
	Prenom    string    `json:"prenom"`
	Nom       string    `json:"nom,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// GuestbookRequest is the payload for signing the livre d'or.
type GuestbookRequest struct {
	Prenom  string `json:"prenom"`
	Nom     string `json:"nom"`
	Message string `json:"message"`
}

// Capacity reports the lodging ledger state.
type Capacity struct {
	Remaining int  `json:"placesRestantes"`
	Available bool `json:"disponible"`
}

// Stats aggregates confirmed attendance, recomputed from the response log.
type Stats struct {
	ConfirmedGuests int `json:"invitesConfirmes"`
	Adults          int `json:"adultes"`
	Children        int `json:"enfants"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	// Remaining carries the current lodging count on capacity rejections
	// so the client can offer alternatives.
	Remaining *int `json:"placesRestantes,omitempty"`
}
