// Package notify sends booking emails. The scheduling service treats these as
// fire-and-forget: a failed send is logged and the booking stands.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/config"
	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

// Mailer implements scheduling.Notifier over SMTP. When SMTP credentials are
// missing it degrades to log-only mode so local development never needs a
// mail account.
type Mailer struct {
	client *mail.Client
	cfg    config.Config
	log    *zap.Logger
}

func NewMailer(cfg config.Config, log *zap.Logger) (*Mailer, error) {
	m := &Mailer{cfg: cfg, log: log}

	if !cfg.SMTPConfigured() {
		log.Info("smtp not configured, booking emails will only be logged")
		return m, nil
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPass),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

func (m *Mailer) NotifyPatient(ctx context.Context, appt scheduling.Appointment) error {
	body, err := m.render(patientTemplate, appt)
	if err != nil {
		return err
	}
	return m.send(ctx, appt.PatientEmail, "Appointment Confirmed - "+m.cfg.ClinicName, body)
}

func (m *Mailer) NotifyClinic(ctx context.Context, appt scheduling.Appointment) error {
	body, err := m.render(clinicTemplate, appt)
	if err != nil {
		return err
	}
	return m.send(ctx, m.cfg.ClinicEmail, "New Appointment Booked - "+appt.AppointmentDate+" "+appt.AppointmentTime, body)
}

type emailData struct {
	Appt       scheduling.Appointment
	PrettyDate string
	Online     bool
	ClinicName string
	DoctorName string
	Address    string
	Phone      string
	MeetLink   string
}

func (m *Mailer) render(tmpl *template.Template, appt scheduling.Appointment) (string, error) {
	pretty := appt.AppointmentDate
	if t, err := time.ParseInLocation("2006-01-02", appt.AppointmentDate, time.Local); err == nil {
		pretty = t.Format("Monday, January 2, 2006")
	}

	data := emailData{
		Appt:       appt,
		PrettyDate: pretty,
		Online:     appt.ConsultationType == scheduling.ConsultationOnline,
		ClinicName: m.cfg.ClinicName,
		DoctorName: m.cfg.DoctorName,
		Address:    m.cfg.ClinicAddress,
		Phone:      m.cfg.ClinicPhone,
		MeetLink:   m.cfg.MeetLink,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		m.log.Info("email suppressed (smtp not configured)",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.SMTPUser); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

var patientTemplate = template.Must(template.New("patient").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>Appointment Confirmed</h1>
  <p>Hello {{.Appt.PatientName}},</p>
  <p>Your appointment has been successfully confirmed.</p>
  <ul>
    <li><strong>Date:</strong> {{.PrettyDate}}</li>
    <li><strong>Time:</strong> {{.Appt.AppointmentTime}}</li>
    <li><strong>Doctor:</strong> {{.DoctorName}}</li>
    <li><strong>Type:</strong> {{if .Online}}Online Consultation{{else}}In-Person Consultation{{end}}</li>
  </ul>
  {{if .Online}}
  <p><strong>Meeting Link:</strong> <a href="{{.MeetLink}}">{{.MeetLink}}</a><br>
  <strong>Meeting Password:</strong> <code>{{.Appt.MeetingCode}}</code></p>
  <p>Please join the meeting 5 minutes before your scheduled time. The password
  is unique to your appointment and can only be used once.</p>
  {{else}}
  <p><strong>Clinic Address:</strong> {{.Address}}<br>
  <strong>Phone:</strong> {{.Phone}}</p>
  <p>Please arrive 10 minutes before your scheduled appointment time.</p>
  {{end}}
  <p>Best regards,<br>{{.DoctorName}}<br>{{.ClinicName}}</p>
</div>
`))

var clinicTemplate = template.Must(template.New("clinic").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1>New Appointment</h1>
  <ul>
    <li><strong>Patient:</strong> {{.Appt.PatientName}}</li>
    <li><strong>Email:</strong> {{.Appt.PatientEmail}}</li>
    <li><strong>Phone:</strong> {{.Appt.PatientPhone}}</li>
    <li><strong>Date:</strong> {{.PrettyDate}}</li>
    <li><strong>Time:</strong> {{.Appt.AppointmentTime}}</li>
    <li><strong>Type:</strong> {{.Appt.ConsultationType}}</li>
    {{if .Appt.Notes}}<li><strong>Notes:</strong> {{.Appt.Notes}}</li>{{end}}
  </ul>
</div>
`))
