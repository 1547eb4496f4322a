// Package mailer sends the post-submission notification emails over SMTP:
// a warm confirmation to the guest and a tabular summary to the organizers.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/mdupont/wedding-rsvp/internal/config"
	"github.com/mdupont/wedding-rsvp/internal/model"
)

// Mailer wraps an SMTP client. Both send paths are best-effort from the
// caller's point of view.
type Mailer struct {
	client     *mail.Client
	from       string
	organizers []string
	log        zerolog.Logger
}

// New builds the SMTP client. Host and From are mandatory: without them the
// dispatcher cannot operate, so construction fails fast.
func New(cfg config.SMTPConfig, log zerolog.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP_FROM is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Mailer{
		client:     client,
		from:       cfg.From,
		organizers: cfg.Organizers,
		log:        log.With().Str("component", "mailer").Logger(),
	}, nil
}

func (m *Mailer) send(ctx context.Context, to []string, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info().Strs("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

// SendGuestConfirmation mails the guest a recap of what they submitted.
func (m *Mailer) SendGuestConfirmation(ctx context.Context, rec model.RsvpResponse) error {
	if rec.Email == "" {
		return fmt.Errorf("guest has no email address")
	}
	return m.send(ctx, []string{rec.Email}, "Votre réponse est bien enregistrée", guestBody(rec))
}

// SendOrganizerSummary mails the organizer list an internal summary.
func (m *Mailer) SendOrganizerSummary(ctx context.Context, rec model.RsvpResponse) error {
	if len(m.organizers) == 0 {
		return fmt.Errorf("no organizer addresses configured")
	}
	subject := fmt.Sprintf("RSVP : %s %s", rec.Prenom, rec.Nom)
	return m.send(ctx, m.organizers, subject, organizerBody(rec))
}

func ouiNon(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func guestBody(rec model.RsvpResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n\n", rec.Prenom)
	if rec.Presence {
		fmt.Fprintf(&b, "Merci ! Votre présence est confirmée pour %d personne(s).\n", rec.NbTotal)
		if rec.Accompagnant && rec.PrenomConjoint != "" {
			fmt.Fprintf(&b, "Accompagnant(e) : %s\n", rec.PrenomConjoint)
		}
		if rec.NombreEnfants > 0 {
			fmt.Fprintf(&b, "Enfants : %d", rec.NombreEnfants)
			if rec.NomsEnfants != "" {
				fmt.Fprintf(&b, " (%s)", rec.NomsEnfants)
			}
			b.WriteString("\n")
		}
		if rec.Hebergement {
			fmt.Fprintf(&b, "Hébergement réservé pour %d personne(s).\n", rec.NbTotal)
		}
		if rec.Allergies != "" {
			fmt.Fprintf(&b, "Allergies / régimes notés : %s\n", rec.Allergies)
		}
	} else {
		b.WriteString("Nous avons bien noté votre absence. Vous nous manquerez !\n")
	}
	b.WriteString("\nÀ très bientôt,\nMarie & Damien")
	return b.String()
}

func organizerBody(rec model.RsvpResponse) string {
	var b strings.Builder
	b.WriteString("Nouvelle réponse :\n\n")
	fmt.Fprintf(&b, "Invité       : %s %s (%s)\n", rec.Prenom, rec.Nom, rec.GuestID)
	fmt.Fprintf(&b, "Email        : %s\n", rec.Email)
	fmt.Fprintf(&b, "Présence     : %s\n", ouiNon(rec.Presence))
	fmt.Fprintf(&b, "Accompagnant : %s", ouiNon(rec.Accompagnant))
	if rec.PrenomConjoint != "" {
		fmt.Fprintf(&b, " (%s)", rec.PrenomConjoint)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Enfants      : %d", rec.NombreEnfants)
	if rec.NomsEnfants != "" {
		fmt.Fprintf(&b, " (%s)", rec.NomsEnfants)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Hébergement  : %s\n", ouiNon(rec.Hebergement))
	fmt.Fprintf(&b, "Total        : %d personne(s)\n", rec.NbTotal)
	if rec.Allergies != "" {
		fmt.Fprintf(&b, "Allergies    : %s\n", rec.Allergies)
	}
	if rec.Message != "" {
		fmt.Fprintf(&b, "Message      : %s\n", rec.Message)
	}
	fmt.Fprintf(&b, "Horodatage   : %s\n", rec.CreatedAt.Format("02/01/2006 15:04:05"))
	return b.String()
}
