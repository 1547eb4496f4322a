// Package postgres implements the store contract over PostgreSQL using pgx.
// It is an optional backend for running without Google credentials; the
// schema mirrors the spreadsheet tabs (guests, responses, guestbook).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mdupont/wedding-rsvp/internal/config"
	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// Store holds the pgx connection pool.
type Store struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates and validates a pgxpool connection pool. It retries up to 5
// times to accommodate containers starting up.
func New(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	logger := log.With().Str("component", "postgres").Logger()

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				break
			}
			pool.Close()
		}
		logger.Warn().Int("attempt", attempt).Err(err).Msg("db connect failed, retrying in 2s")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &Store{db: pool, log: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.db.Close() }

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, store.ErrUnavailable)
}

const guestColumns = `id, nom, prenom, email, presence, confirmed, confirmed_at,
	prenom_conjoint, nombre_enfants, noms_enfants, allergies, message, lodging_slots`

func scanGuest(row pgx.Row) (*model.Guest, error) {
	var g model.Guest
	err := row.Scan(&g.ID, &g.Nom, &g.Prenom, &g.Email, &g.Presence, &g.Confirmed, &g.ConfirmedAt,
		&g.PrenomConjoint, &g.NombreEnfants, &g.NomsEnfants, &g.Allergies, &g.Message, &g.LodgingSlots)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrGuestNotFound
		}
		return nil, unavailable("scan guest", err)
	}
	return &g, nil
}

func (s *Store) FindGuestByID(ctx context.Context, id string) (*model.Guest, error) {
	return scanGuest(s.db.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE lower(id) = lower($1) LIMIT 1`, id))
}

func (s *Store) FindGuestByName(ctx context.Context, nom, prenom string) (*model.Guest, error) {
	return scanGuest(s.db.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests
		 WHERE lower(nom) = lower($1) AND lower(prenom) = lower($2) LIMIT 1`,
		nom, prenom))
}

func (s *Store) ListGuests(ctx context.Context) ([]model.Guest, error) {
	rows, err := s.db.Query(ctx, `SELECT `+guestColumns+` FROM guests ORDER BY nom, prenom`)
	if err != nil {
		return nil, unavailable("list guests", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.Nom, &g.Prenom, &g.Email, &g.Presence, &g.Confirmed, &g.ConfirmedAt,
			&g.PrenomConjoint, &g.NombreEnfants, &g.NomsEnfants, &g.Allergies, &g.Message, &g.LodgingSlots); err != nil {
			return nil, unavailable("scan guest", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (s *Store) UpdateGuestRSVP(ctx context.Context, id string, upd store.GuestUpdate) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE guests SET
			presence = $2, confirmed = TRUE, confirmed_at = $3,
			prenom_conjoint = $4, nombre_enfants = $5, noms_enfants = $6,
			allergies = $7, message = $8, lodging_slots = $9
		 WHERE lower(id) = lower($1)`,
		id, upd.Presence, upd.ConfirmedAt, upd.PrenomConjoint, upd.NombreEnfants, upd.NomsEnfants,
		upd.Allergies, upd.Message, upd.LodgingSlots,
	)
	if err != nil {
		return unavailable("update guest", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrGuestNotFound
	}
	return nil
}

func (s *Store) AppendResponse(ctx context.Context, rec model.RsvpResponse) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO responses (id, guest_id, nom, prenom, email, presence, accompagnant,
			prenom_conjoint, enfants, nombre_enfants, noms_enfants, allergies, message,
			hebergement, nb_total, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		rec.ID, rec.GuestID, rec.Nom, rec.Prenom, rec.Email, rec.Presence, rec.Accompagnant,
		rec.PrenomConjoint, rec.Enfants, rec.NombreEnfants, rec.NomsEnfants, rec.Allergies,
		rec.Message, rec.Hebergement, rec.NbTotal, rec.CreatedAt,
	)
	if err != nil {
		return unavailable("insert response", err)
	}
	return nil
}

func (s *Store) ListResponses(ctx context.Context) ([]model.RsvpResponse, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, guest_id, nom, prenom, email, presence, accompagnant,
			prenom_conjoint, enfants, nombre_enfants, noms_enfants, allergies, message,
			hebergement, nb_total, created_at
		 FROM responses ORDER BY created_at ASC`)
	if err != nil {
		return nil, unavailable("list responses", err)
	}
	defer rows.Close()

	var recs []model.RsvpResponse
	for rows.Next() {
		var r model.RsvpResponse
		if err := rows.Scan(&r.ID, &r.GuestID, &r.Nom, &r.Prenom, &r.Email, &r.Presence,
			&r.Accompagnant, &r.PrenomConjoint, &r.Enfants, &r.NombreEnfants, &r.NomsEnfants,
			&r.Allergies, &r.Message, &r.Hebergement, &r.NbTotal, &r.CreatedAt); err != nil {
			return nil, unavailable("scan response", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *Store) LatestResponse(ctx context.Context, guestID string) (*model.RsvpResponse, error) {
	var r model.RsvpResponse
	err := s.db.QueryRow(ctx,
		`SELECT id, guest_id, nom, prenom, email, presence, accompagnant,
			prenom_conjoint, enfants, nombre_enfants, noms_enfants, allergies, message,
			hebergement, nb_total, created_at
		 FROM responses WHERE lower(guest_id) = lower($1)
		 ORDER BY created_at DESC LIMIT 1`,
		guestID,
	).Scan(&r.ID, &r.GuestID, &r.Nom, &r.Prenom, &r.Email, &r.Presence,
		&r.Accompagnant, &r.PrenomConjoint, &r.Enfants, &r.NombreEnfants, &r.NomsEnfants,
		&r.Allergies, &r.Message, &r.Hebergement, &r.NbTotal, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrGuestNotFound
		}
		return nil, unavailable("latest response", err)
	}
	return &r, nil
}

func (s *Store) SumLodgingSlots(ctx context.Context) (int, error) {
	var sum int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(lodging_slots), 0) FROM guests WHERE confirmed`).Scan(&sum)
	if err != nil {
		return 0, unavailable("sum lodging slots", err)
	}
	return sum, nil
}

func (s *Store) AppendEntry(ctx context.Context, entry model.GuestbookEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO guestbook (id, prenom, nom, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Prenom, entry.Nom, entry.Message, entry.CreatedAt,
	)
	if err != nil {
		return unavailable("insert guestbook entry", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, limit int) ([]model.GuestbookEntry, error) {
	q := strings.Builder{}
	q.WriteString(`SELECT id, prenom, nom, message, created_at
		 FROM guestbook ORDER BY created_at DESC`)
	args := []any{}
	if limit > 0 {
		q.WriteString(` LIMIT $1`)
		args = append(args, limit)
	}
	rows, err := s.db.Query(ctx, q.String(), args...)
	if err != nil {
		return nil, unavailable("list guestbook", err)
	}
	defer rows.Close()

	var entries []model.GuestbookEntry
	for rows.Next() {
		var e model.GuestbookEntry
		if err := rows.Scan(&e.ID, &e.Prenom, &e.Nom, &e.Message, &e.CreatedAt); err != nil {
			return nil, unavailable("scan guestbook entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
