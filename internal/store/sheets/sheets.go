// Package sheets implements the store contract on top of a Google Sheets
// spreadsheet. The spreadsheet is the system of record: one tab for the
// guest list, one for the append-only response log, one for the guestbook.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mdupont/wedding-rsvp/internal/config"
	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// Store talks to one spreadsheet. Header maps are rebuilt on every read so
// the owner can reorder columns without a restart.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	guestsTab     string
	responsesTab  string
	guestbookTab  string
	log           zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New validates credentials up front: a missing spreadsheet id or key file
// is a configuration error and the whole operation fails fast.
func New(ctx context.Context, cfg config.SheetsConfig, log zerolog.Logger) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SHEETS_SPREADSHEET_ID is required")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		guestsTab:     cfg.GuestsTab,
		responsesTab:  cfg.ResponsesTab,
		guestbookTab:  cfg.GuestbookTab,
		log:           log.With().Str("component", "sheets").Logger(),
	}, nil
}

// unavailable tags a transient API failure so callers can map it to a
// retryable server error.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, store.ErrUnavailable)
}

// quoteTab wraps a tab name in single quotes for A1 notation. Unquoted
// names break as soon as the tab contains a space ("Livre d'or").
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// readTab fetches all rows of a tab and resolves its header row.
func (s *Store) readTab(ctx context.Context, tab string, fields []fieldSpec) (map[string]int, [][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quoteTab(tab)).Context(ctx).Do()
	if err != nil {
		return nil, nil, unavailable("read tab "+tab, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("tab %s has no header row", tab)
	}
	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = fmt.Sprint(cell)
	}
	cols, err := resolveHeaders(headers, fields)
	if err != nil {
		return nil, nil, fmt.Errorf("tab %s: %w", tab, err)
	}
	return cols, resp.Values[1:], nil
}

func (s *Store) appendRow(ctx context.Context, tab string, row []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, quoteTab(tab), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return unavailable("append to "+tab, err)
	}
	return nil
}

// ─── GuestStore ──────────────────────────────────────────────────────────────

func (s *Store) FindGuestByID(ctx context.Context, id string) (*model.Guest, error) {
	cols, rows, err := s.readTab(ctx, s.guestsTab, guestFields())
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if strings.EqualFold(cellString(cols, row, "id"), id) {
			g := guestFromRow(cols, row)
			return &g, nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) FindGuestByName(ctx context.Context, nom, prenom string) (*model.Guest, error) {
	cols, rows, err := s.readTab(ctx, s.guestsTab, guestFields())
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if strings.EqualFold(cellString(cols, row, "nom"), nom) &&
			strings.EqualFold(cellString(cols, row, "prenom"), prenom) {
			g := guestFromRow(cols, row)
			return &g, nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) ListGuests(ctx context.Context) ([]model.Guest, error) {
	cols, rows, err := s.readTab(ctx, s.guestsTab, guestFields())
	if err != nil {
		return nil, err
	}
	guests := make([]model.Guest, 0, len(rows))
	for _, row := range rows {
		if cellString(cols, row, "id") == "" {
			continue
		}
		guests = append(guests, guestFromRow(cols, row))
	}
	return guests, nil
}

func (s *Store) UpdateGuestRSVP(ctx context.Context, id string, upd store.GuestUpdate) error {
	cols, rows, err := s.readTab(ctx, s.guestsTab, guestFields())
	if err != nil {
		return err
	}
	for i, row := range rows {
		if !strings.EqualFold(cellString(cols, row, "id"), id) {
			continue
		}
		// Row 1 is the header; data rows start at 2.
		rowNum := i + 2
		vr := &sheets.ValueRange{Values: [][]interface{}{applyGuestUpdate(cols, row, upd)}}
		_, err := s.svc.Spreadsheets.Values.Update(
			s.spreadsheetID,
			fmt.Sprintf("%s!A%d", quoteTab(s.guestsTab), rowNum),
			vr,
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return unavailable("update guest row", err)
		}
		s.log.Info().Str("guest_id", id).Int("row", rowNum).Msg("guest record updated")
		return nil
	}
	return store.ErrGuestNotFound
}

// ─── ResponseStore ───────────────────────────────────────────────────────────

func (s *Store) AppendResponse(ctx context.Context, rec model.RsvpResponse) error {
	cols, _, err := s.readTab(ctx, s.responsesTab, responseFields())
	if err != nil {
		return err
	}
	if err := s.appendRow(ctx, s.responsesTab, responseToRow(cols, rec)); err != nil {
		return err
	}
	s.log.Info().Str("guest_id", rec.GuestID).Msg("response appended")
	return nil
}

func (s *Store) ListResponses(ctx context.Context) ([]model.RsvpResponse, error) {
	cols, rows, err := s.readTab(ctx, s.responsesTab, responseFields())
	if err != nil {
		return nil, err
	}
	recs := make([]model.RsvpResponse, 0, len(rows))
	for _, row := range rows {
		if cellString(cols, row, "guestId") == "" {
			continue
		}
		recs = append(recs, responseFromRow(cols, row))
	}
	return recs, nil
}

func (s *Store) LatestResponse(ctx context.Context, guestID string) (*model.RsvpResponse, error) {
	recs, err := s.ListResponses(ctx)
	if err != nil {
		return nil, err
	}
	// The log is append-only, so the last matching row is the latest.
	for i := len(recs) - 1; i >= 0; i-- {
		if strings.EqualFold(recs[i].GuestID, guestID) {
			return &recs[i], nil
		}
	}
	return nil, store.ErrGuestNotFound
}

func (s *Store) SumLodgingSlots(ctx context.Context) (int, error) {
	guests, err := s.ListGuests(ctx)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, g := range guests {
		if g.Confirmed {
			sum += g.LodgingSlots
		}
	}
	return sum, nil
}

// ─── GuestbookStore ──────────────────────────────────────────────────────────

func (s *Store) AppendEntry(ctx context.Context, entry model.GuestbookEntry) error {
	cols, _, err := s.readTab(ctx, s.guestbookTab, guestbookFields())
	if err != nil {
		return err
	}
	return s.appendRow(ctx, s.guestbookTab, entryToRow(cols, entry))
}

func (s *Store) ListEntries(ctx context.Context, limit int) ([]model.GuestbookEntry, error) {
	cols, rows, err := s.readTab(ctx, s.guestbookTab, guestbookFields())
	if err != nil {
		return nil, err
	}
	entries := make([]model.GuestbookEntry, 0, len(rows))
	// Newest first: appended rows land at the bottom.
	for i := len(rows) - 1; i >= 0; i-- {
		if cellString(cols, rows[i], "message") == "" {
			continue
		}
		entries = append(entries, entryFromRow(cols, rows[i]))
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	return entries, nil
}
