package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// Cell values arrive as interface{} and, since the owner types them by hand,
// booleans show up as OUI/Oui/x/true and numbers as strings. All reads go
// through these helpers.

const sheetTimeLayout = "02/01/2006 15:04:05"

func cellString(cols map[string]int, row []interface{}, field string) string {
	idx, ok := cols[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func cellBool(cols map[string]int, row []interface{}, field string) bool {
	switch strings.ToLower(cellString(cols, row, field)) {
	case "oui", "yes", "true", "vrai", "x", "1":
		return true
	}
	return false
}

func cellInt(cols map[string]int, row []interface{}, field string) int {
	s := cellString(cols, row, field)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func cellTime(cols map[string]int, row []interface{}, field string) time.Time {
	s := cellString(cols, row, field)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{sheetTimeLayout, "02/01/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatBool(b bool) string {
	if b {
		return "OUI"
	}
	return "NON"
}

func guestFromRow(cols map[string]int, row []interface{}) model.Guest {
	g := model.Guest{
		ID:             cellString(cols, row, "id"),
		Nom:            cellString(cols, row, "nom"),
		Prenom:         cellString(cols, row, "prenom"),
		Email:          cellString(cols, row, "email"),
		Presence:       cellBool(cols, row, "presence"),
		Confirmed:      cellBool(cols, row, "confirme"),
		PrenomConjoint: cellString(cols, row, "prenomConjoint"),
		NombreEnfants:  cellInt(cols, row, "nombreEnfants"),
		NomsEnfants:    cellString(cols, row, "nomsEnfants"),
		Allergies:      cellString(cols, row, "allergies"),
		Message:        cellString(cols, row, "message"),
		LodgingSlots:   cellInt(cols, row, "placesHebergement"),
	}
	if t := cellTime(cols, row, "dateConfirmation"); !t.IsZero() {
		g.ConfirmedAt = &t
	}
	return g
}

func responseFromRow(cols map[string]int, row []interface{}) model.RsvpResponse {
	return model.RsvpResponse{
		ID:             cellString(cols, row, "id"),
		GuestID:        cellString(cols, row, "guestId"),
		Nom:            cellString(cols, row, "nom"),
		Prenom:         cellString(cols, row, "prenom"),
		Email:          cellString(cols, row, "email"),
		Presence:       cellBool(cols, row, "presence"),
		Accompagnant:   cellBool(cols, row, "accompagnant"),
		PrenomConjoint: cellString(cols, row, "prenomConjoint"),
		Enfants:        cellBool(cols, row, "enfants"),
		NombreEnfants:  cellInt(cols, row, "nombreEnfants"),
		NomsEnfants:    cellString(cols, row, "nomsEnfants"),
		Allergies:      cellString(cols, row, "allergies"),
		Message:        cellString(cols, row, "message"),
		Hebergement:    cellBool(cols, row, "hebergement"),
		NbTotal:        cellInt(cols, row, "nbTotal"),
		CreatedAt:      cellTime(cols, row, "date"),
	}
}

func entryFromRow(cols map[string]int, row []interface{}) model.GuestbookEntry {
	return model.GuestbookEntry{
		ID:        cellString(cols, row, "id"),
		Prenom:    cellString(cols, row, "prenom"),
		Nom:       cellString(cols, row, "nom"),
		Message:   cellString(cols, row, "message"),
		CreatedAt: cellTime(cols, row, "date"),
	}
}

// rowBuilder places values at resolved column indexes so appended rows line
// up with whatever column order the owner chose.
type rowBuilder struct {
	cols  map[string]int
	cells []interface{}
}

func newRowBuilder(cols map[string]int, minWidth int) *rowBuilder {
	width := minWidth
	for _, idx := range cols {
		if idx+1 > width {
			width = idx + 1
		}
	}
	cells := make([]interface{}, width)
	for i := range cells {
		cells[i] = ""
	}
	return &rowBuilder{cols: cols, cells: cells}
}

func (b *rowBuilder) set(field string, value interface{}) {
	if idx, ok := b.cols[field]; ok {
		b.cells[idx] = value
	}
}

func (b *rowBuilder) row() []interface{} { return b.cells }

func responseToRow(cols map[string]int, rec model.RsvpResponse) []interface{} {
	b := newRowBuilder(cols, 0)
	b.set("id", rec.ID)
	b.set("guestId", rec.GuestID)
	b.set("nom", rec.Nom)
	b.set("prenom", rec.Prenom)
	b.set("email", rec.Email)
	b.set("presence", formatBool(rec.Presence))
	b.set("accompagnant", formatBool(rec.Accompagnant))
	b.set("prenomConjoint", rec.PrenomConjoint)
	b.set("enfants", formatBool(rec.Enfants))
	b.set("nombreEnfants", strconv.Itoa(rec.NombreEnfants))
	b.set("nomsEnfants", rec.NomsEnfants)
	b.set("allergies", rec.Allergies)
	b.set("message", rec.Message)
	b.set("hebergement", formatBool(rec.Hebergement))
	b.set("nbTotal", strconv.Itoa(rec.NbTotal))
	b.set("date", rec.CreatedAt.Format(sheetTimeLayout))
	return b.row()
}

func entryToRow(cols map[string]int, entry model.GuestbookEntry) []interface{} {
	b := newRowBuilder(cols, 0)
	b.set("id", entry.ID)
	b.set("prenom", entry.Prenom)
	b.set("nom", entry.Nom)
	b.set("message", entry.Message)
	b.set("date", entry.CreatedAt.Format(sheetTimeLayout))
	return b.row()
}

// applyGuestUpdate rewrites only the RSVP-owned cells of an existing guest
// row, leaving owner-managed columns untouched.
func applyGuestUpdate(cols map[string]int, raw []interface{}, upd store.GuestUpdate) []interface{} {
	b := newRowBuilder(cols, len(raw))
	copy(b.cells, raw)
	b.set("presence", formatBool(upd.Presence))
	b.set("confirme", formatBool(true))
	b.set("dateConfirmation", upd.ConfirmedAt.Format(sheetTimeLayout))
	b.set("prenomConjoint", upd.PrenomConjoint)
	b.set("nombreEnfants", strconv.Itoa(upd.NombreEnfants))
	b.set("nomsEnfants", upd.NomsEnfants)
	b.set("allergies", upd.Allergies)
	b.set("message", upd.Message)
	b.set("placesHebergement", strconv.Itoa(upd.LodgingSlots))
	return b.row()
}
