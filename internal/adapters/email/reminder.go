package email

import (
	"fmt"
	"html"
	"time"
)

// GymSignature closes every member-facing message.
const GymSignature = "C.A.M Amezcuas"

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDateES renders a date the way es-MX long dates read, e.g. "5 de marzo de 2025".
func LongDateES(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// Reminder is the data behind a membership expiry notice.
type Reminder struct {
	Email    string
	Name     string
	PlanType string
	EndDate  time.Time
}

// ReminderMessage builds the expiry notice for one member.
// PRE: r.Email is non-empty; EndDate is already in the gym's time zone
func ReminderMessage(r Reminder) Message {
	name := r.Name
	if name == "" {
		name = "Miembro"
	}
	plan := html.EscapeString(r.PlanType)
	body := fmt.Sprintf(`<p>Hola %s,</p>
<p>Te recordamos que tu membresía <strong>%s</strong> vence el <strong>%s</strong>.</p>
<p>Por favor realiza tu pago para continuar entrenando sin interrupciones.</p>
<p>%s</p>`, html.EscapeString(name), plan, LongDateES(r.EndDate), GymSignature)

	return Message{
		To:      []string{r.Email},
		Subject: fmt.Sprintf("Recordatorio: tu membresía %s está por vencer", r.PlanType),
		HTML:    body,
	}
}

// LeadMessage builds the staff notification for a contact lead.
func LeadMessage(lead Lead, inbox string) Message {
	body := fmt.Sprintf(`<p><strong>Nombre:</strong> %s</p>
<p><strong>Correo:</strong> %s</p>
<p><strong>Teléfono:</strong> %s</p>
<p>%s</p>`, html.EscapeString(lead.Name), html.EscapeString(lead.Email),
		html.EscapeString(lead.Phone), html.EscapeString(lead.Message))
	return Message{
		To:      []string{inbox},
		Subject: "Nuevo contacto: " + lead.Name,
		HTML:    body,
		ReplyTo: lead.Email,
	}
}
