package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdupont/wedding-rsvp/internal/config"
	"github.com/mdupont/wedding-rsvp/internal/model"
)

func sampleResponse() model.RsvpResponse {
	return model.RsvpResponse{
		ID: "r1", GuestID: "G42", Nom: "Martin", Prenom: "Julie",
		Email: "julie@example.com", Presence: true,
		Accompagnant: true, PrenomConjoint: "Marc",
		Enfants: true, NombreEnfants: 2, NomsEnfants: "Léa, Tom",
		Hebergement: true, NbTotal: 4,
		CreatedAt: time.Date(2026, 5, 15, 18, 30, 0, 0, time.UTC),
	}
}

func TestGuestBodyAcceptance(t *testing.T) {
	body := guestBody(sampleResponse())
	for _, want := range []string{"Julie", "4 personne(s)", "Marc", "Hébergement"} {
		if !strings.Contains(body, want) {
			t.Errorf("guest body missing %q:\n%s", want, body)
		}
	}
}

func TestGuestBodyDecline(t *testing.T) {
	rec := sampleResponse()
	rec.Presence = false
	body := guestBody(rec)
	if !strings.Contains(body, "absence") {
		t.Errorf("decline body does not acknowledge the absence:\n%s", body)
	}
	if strings.Contains(body, "Hébergement") {
		t.Error("decline body mentions lodging")
	}
}

func TestOrganizerBodySummarisesSubmission(t *testing.T) {
	body := organizerBody(sampleResponse())
	for _, want := range []string{"G42", "julie@example.com", "oui", "Marc", "4 personne(s)", "15/05/2026"} {
		if !strings.Contains(body, want) {
			t.Errorf("organizer body missing %q:\n%s", want, body)
		}
	}
}

func TestNewRequiresHostAndFrom(t *testing.T) {
	log := zerolog.Nop()
	if _, err := New(config.SMTPConfig{From: "a@b.fr"}, log); err == nil {
		t.Error("missing host accepted")
	}
	if _, err := New(config.SMTPConfig{Host: "smtp.example.com"}, log); err == nil {
		t.Error("missing sender accepted")
	}
}
