package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "header"}}<div style="font-family:Arial,sans-serif;max-width:560px;margin:auto">
<h2 style="color:#0a7d3b">Bus Bénin</h2>
<p>Bonjour {{.Name}},</p>{{end}}

{{define "details"}}<table style="border-collapse:collapse;width:100%">
<tr><td>Référence</td><td><strong>{{.Ref}}</strong></td></tr>
<tr><td>Trajet</td><td>{{.Trajet}}{{if .Compagnie}} ({{.Compagnie}}){{end}}</td></tr>
<tr><td>Date</td><td>{{.Date}} à {{.Horaire}}</td></tr>
<tr><td>Places</td><td>{{.Places}}</td></tr>
<tr><td>Montant</td><td>{{.Montant}}</td></tr>
</table>{{end}}

{{define "footer"}}<p>Merci de voyager avec Bus Bénin.</p></div>{{end}}

{{define "reservation.created"}}{{template "header" .}}
<p>Votre réservation a bien été enregistrée. Elle sera confirmée dès réception du paiement.</p>
{{template "details" .}}{{template "footer" .}}{{end}}

{{define "reservation.confirmed"}}{{template "header" .}}
<p>Votre paiement a été reçu, votre réservation est <strong>confirmée</strong>.</p>
{{template "details" .}}
{{if .TransactionID}}<p>Transaction : {{.TransactionID}}</p>{{end}}
<p>Votre reçu est disponible depuis votre espace « Mes réservations ».</p>
{{template "footer" .}}{{end}}

{{define "reservation.canceled"}}{{template "header" .}}
<p>Votre réservation a été <strong>annulée</strong>.</p>
{{template "details" .}}{{template "footer" .}}{{end}}

{{define "reservation.expired"}}{{template "header" .}}
<p>Votre réservation a <strong>expiré</strong> faute de paiement confirmé.</p>
{{template "details" .}}{{template "footer" .}}{{end}}
`))

type emailView struct {
	Name          string
	Ref           string
	Trajet        string
	Compagnie     string
	Date          string
	Horaire       string
	Places        int
	Montant       string
	TransactionID string
}

// Render builds the subject and both bodies for a reservation event
func Render(event *ReservationEvent) (subject, htmlBody, textBody string, err error) {
	if !event.Type.IsValid() {
		return "", "", "", fmt.Errorf("unknown event type %q", event.Type)
	}

	view := emailView{
		Name:          firstNonEmpty(event.RecipientName, "cher client"),
		Ref:           event.Reference(),
		Trajet:        event.Trajet,
		Compagnie:     event.Compagnie,
		Date:          event.DateVoyage,
		Horaire:       event.Horaire,
		Places:        event.NbPlaces,
		Montant:       FormatFCFA(event.MontantTotal),
		TransactionID: event.TransactionID,
	}

	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, string(event.Type), view); err != nil {
		return "", "", "", fmt.Errorf("failed to render %s email: %w", event.Type, err)
	}

	subject = subjectFor(event)
	textBody = fmt.Sprintf("Bonjour %s,\n\n%s\n\nRéférence : %s\nTrajet : %s\nDate : %s à %s\nPlaces : %d\nMontant : %s\n\nBus Bénin",
		view.Name, subject, view.Ref, view.Trajet, view.Date, view.Horaire, view.Places, view.Montant)
	return subject, buf.String(), textBody, nil
}

func subjectFor(event *ReservationEvent) string {
	switch event.Type {
	case EventReservationCreated:
		return "Réservation enregistrée " + event.Trajet
	case EventReservationConfirmed:
		return "Réservation confirmée " + event.Trajet
	case EventReservationCanceled:
		return "Réservation annulée " + event.Trajet
	case EventReservationExpired:
		return "Réservation expirée " + event.Trajet
	default:
		return "Bus Bénin"
	}
}

// FormatFCFA renders 12500 as "12 500 FCFA"
func FormatFCFA(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + " FCFA"
	if neg {
		out = "-" + out
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
