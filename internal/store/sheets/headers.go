package sheets

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The spreadsheet is edited by hand by a non-technical owner, so header
// names drift: case changes, accents come and go, labels get reworded
// ("Présence" vs "presence", "Nombre d'enfants" vs "Nb enfants"). Headers
// are therefore normalized once per load and each field binds to the first
// unclaimed column whose normalized header contains one of its tokens.

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases, strips accents and drops everything that is
// not a letter or digit. "Prénom du conjoint" -> "prenomduconjoint".
func normalizeHeader(s string) string {
	folded, _, err := transform.String(accentStripper, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fieldSpec names a canonical field and the normalized tokens that identify
// its column. Required fields abort the load when no header matches.
type fieldSpec struct {
	name     string
	tokens   []string
	required bool
}

// resolveHeaders maps canonical field names to column indexes. Exact matches
// are tried before substring matches, and a column claimed by an earlier
// field is never reused, so field order matters: "prenom" must bind before
// "nom" or the substring pass would hand it the wrong column.
func resolveHeaders(headers []string, fields []fieldSpec) (map[string]int, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	cols := make(map[string]int, len(fields))
	claimed := make(map[int]bool, len(fields))

	bind := func(f fieldSpec, match func(header, token string) bool) bool {
		for _, tok := range f.tokens {
			for i, h := range normalized {
				if claimed[i] || h == "" {
					continue
				}
				if match(h, tok) {
					cols[f.name] = i
					claimed[i] = true
					return true
				}
			}
		}
		return false
	}

	for _, f := range fields {
		if bind(f, func(h, t string) bool { return h == t }) {
			continue
		}
		if bind(f, strings.Contains) {
			continue
		}
		if f.required {
			return nil, fmt.Errorf("no column matches required field %q", f.name)
		}
	}
	return cols, nil
}

// Column layouts for the three tabs. Tokens are already normalized.

func guestFields() []fieldSpec {
	return []fieldSpec{
		{name: "id", tokens: []string{"id", "code"}, required: true},
		{name: "prenom", tokens: []string{"prenom"}, required: true},
		{name: "nom", tokens: []string{"nom"}, required: true},
		{name: "email", tokens: []string{"email", "mail"}, required: true},
		{name: "presence", tokens: []string{"presence"}},
		{name: "confirme", tokens: []string{"confirme", "confirmation"}},
		{name: "dateConfirmation", tokens: []string{"dateconfirmation", "date"}},
		{name: "prenomConjoint", tokens: []string{"conjoint", "accompagnant"}},
		{name: "nomsEnfants", tokens: []string{"nomsenfants", "nomsdesenfants", "prenomsenfants", "prenomsdesenfants"}},
		{name: "nombreEnfants", tokens: []string{"nombreenfants", "nbenfants", "nombredenfants", "enfants"}},
		{name: "allergies", tokens: []string{"allergie", "regime"}},
		{name: "message", tokens: []string{"message", "commentaire"}},
		{name: "placesHebergement", tokens: []string{"hebergement", "places"}},
	}
}

func responseFields() []fieldSpec {
	return []fieldSpec{
		{name: "id", tokens: []string{"idreponse", "id"}, required: true},
		{name: "guestId", tokens: []string{"idinvite", "invite", "guest"}, required: true},
		{name: "prenom", tokens: []string{"prenom"}, required: true},
		{name: "nom", tokens: []string{"nom"}, required: true},
		{name: "email", tokens: []string{"email", "mail"}, required: true},
		{name: "presence", tokens: []string{"presence"}, required: true},
		{name: "prenomConjoint", tokens: []string{"prenomconjoint", "conjoint"}},
		{name: "accompagnant", tokens: []string{"accompagnant"}},
		{name: "nomsEnfants", tokens: []string{"nomsenfants", "prenomsenfants"}},
		{name: "nombreEnfants", tokens: []string{"nombreenfants", "nbenfants", "nombredenfants"}},
		{name: "enfants", tokens: []string{"enfants"}},
		{name: "allergies", tokens: []string{"allergie", "regime"}},
		{name: "message", tokens: []string{"message", "commentaire"}},
		{name: "hebergement", tokens: []string{"hebergement"}},
		{name: "nbTotal", tokens: []string{"nbtotal", "total"}},
		{name: "date", tokens: []string{"date", "horodatage", "timestamp"}},
	}
}

func guestbookFields() []fieldSpec {
	return []fieldSpec{
		{name: "id", tokens: []string{"id"}, required: true},
		{name: "prenom", tokens: []string{"prenom"}, required: true},
		{name: "nom", tokens: []string{"nom"}},
		{name: "message", tokens: []string{"message", "commentaire"}, required: true},
		{name: "date", tokens: []string{"date", "horodatage"}},
	}
}
