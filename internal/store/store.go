// Package store defines the persistence contract shared by the sheets,
// postgres and memory drivers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mdupont/wedding-rsvp/internal/model"
)

// ErrGuestNotFound is returned when no guest row matches the given key.
var ErrGuestNotFound = errors.New("guest not found")

// ErrUnavailable wraps transient backend failures (spreadsheet API
// unreachable, database down). Callers surface it as a server error and may
// resubmit; no automatic retry happens here.
var ErrUnavailable = errors.New("store unavailable")

// GuestUpdate carries the fields the RSVP flow writes back onto a guest row.
// The store sets Confirmed=true and stamps ConfirmedAt as part of the update.
type GuestUpdate struct {
	Presence       bool
	PrenomConjoint string
	NombreEnfants  int
	NomsEnfants    string
	Allergies      string
	Message        string
	LodgingSlots   int
	ConfirmedAt    time.Time
}

// GuestStore reads and mutates the pre-provisioned guest list.
type GuestStore interface {
	// FindGuestByID matches the id column case-insensitively and returns
	// the first hit. Ids are assumed unique; with duplicate rows the first
	// one wins.
	FindGuestByID(ctx context.Context, id string) (*model.Guest, error)
	// FindGuestByName is the fallback path when a guest has no id link.
	// Both fields match case-insensitively.
	FindGuestByName(ctx context.Context, nom, prenom string) (*model.Guest, error)
	ListGuests(ctx context.Context) ([]model.Guest, error)
	// UpdateGuestRSVP locates the row by id and mutates only the given
	// fields, marking the guest confirmed. ErrGuestNotFound if no row
	// matches.
	UpdateGuestRSVP(ctx context.Context, id string, upd GuestUpdate) error
}

// ResponseStore is the append-only RSVP submission log.
type ResponseStore interface {
	// AppendResponse adds a new log row; existing rows are never rewritten.
	AppendResponse(ctx context.Context, rec model.RsvpResponse) error
	ListResponses(ctx context.Context) ([]model.RsvpResponse, error)
	// LatestResponse returns the most recent log entry for a guest id, or
	// ErrGuestNotFound when the guest never submitted.
	LatestResponse(ctx context.Context, guestID string) (*model.RsvpResponse, error)
	// SumLodgingSlots totals lodging places over all confirmed guests.
	// Recomputed from the full row set on every call, never cached.
	SumLodgingSlots(ctx context.Context) (int, error)
}

// GuestbookStore persists livre d'or messages.
type GuestbookStore interface {
	AppendEntry(ctx context.Context, entry model.GuestbookEntry) error
	// ListEntries returns the newest entries first, at most limit of them.
	ListEntries(ctx context.Context, limit int) ([]model.GuestbookEntry, error)
}

// Store bundles the three concerns every driver implements.
type Store interface {
	GuestStore
	ResponseStore
	GuestbookStore
}
