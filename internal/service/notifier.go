package service

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/Payphone-Digital/clinic-admin/config"
	"github.com/Payphone-Digital/clinic-admin/internal/metrics"
	"github.com/Payphone-Digital/clinic-admin/pkg/circuit"
	"github.com/Payphone-Digital/clinic-admin/pkg/logger"
)

// Credentials are sent to a newly created account
type Credentials struct {
	Name       string
	Email      string
	Password   string
	Role       string
	ClinicName string
	LoginURL   string
}

// Notifier delivers out-of-band messages. Callers log failures and carry on.
type Notifier interface {
	SendCredentials(ctx context.Context, address string, creds Credentials) error
	SendOTP(ctx context.Context, address, code, name string) error
}

type EmailProvider interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSProvider interface {
	SendSMS(ctx context.Context, phone, message string) error
}

const messageTemplates = `
{{- define "otp_subject" }}Your password reset code{{ end }}
{{- define "otp_body" -}}
Hello {{ .Name | default "there" }},

Your password reset code is {{ .Code }}. It expires in {{ .Minutes }} {{ if eq .Minutes 1 }}minute{{ else }}minutes{{ end }}.
If you did not request a reset you can ignore this message.
{{- end }}
{{- define "otp_sms" }}{{ .Code }} is your password reset code. Valid for {{ .Minutes }} min.{{ end }}
{{- define "credentials_subject" }}Your {{ .Role | lower | title }} account{{ with .ClinicName }} at {{ . }}{{ end }}{{ end }}
{{- define "credentials_body" -}}
Welcome {{ .Name }},

An account has been created for you.
Email: {{ .Email }}
Temporary password: {{ .Password }}
{{ with .LoginURL }}Sign in at {{ . }}{{ end }}
Please change the password after your first sign in.
{{- end }}
`

// NotificationService renders templates and routes messages to the email or SMS provider.
// Each provider sits behind its own circuit breaker.
type NotificationService struct {
	email     EmailProvider
	sms       SMSProvider
	breakers  *circuit.Registry
	templates *template.Template
	otpTTL    time.Duration
}

func NewNotificationService(email EmailProvider, sms SMSProvider, breakers *circuit.Registry, otpTTL time.Duration) *NotificationService {
	return &NotificationService{
		email:     email,
		sms:       sms,
		breakers:  breakers,
		templates: template.Must(template.New("notifications").Funcs(sprig.TxtFuncMap()).Parse(messageTemplates)),
		otpTTL:    otpTTL,
	}
}

// SendOTP mails the code when address is an email address and texts it otherwise
func (s *NotificationService) SendOTP(ctx context.Context, address, code, name string) error {
	data := map[string]any{
		"Name":    name,
		"Code":    code,
		"Minutes": int(s.otpTTL.Minutes()),
	}

	if isEmailAddress(address) {
		subject, err := s.render("otp_subject", data)
		if err != nil {
			return err
		}
		body, err := s.render("otp_body", data)
		if err != nil {
			return err
		}
		return s.deliverEmail(ctx, address, subject, body)
	}

	message, err := s.render("otp_sms", data)
	if err != nil {
		return err
	}
	return s.deliverSMS(ctx, address, message)
}

func (s *NotificationService) SendCredentials(ctx context.Context, address string, creds Credentials) error {
	subject, err := s.render("credentials_subject", creds)
	if err != nil {
		return err
	}
	body, err := s.render("credentials_body", creds)
	if err != nil {
		return err
	}
	return s.deliverEmail(ctx, address, subject, body)
}

func (s *NotificationService) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *NotificationService) deliverEmail(ctx context.Context, to, subject, body string) error {
	if s.email == nil {
		return fmt.Errorf("email provider not configured")
	}
	err := s.breakers.GetOrCreate("email").Execute(ctx, func(ctx context.Context) error {
		return s.email.SendEmail(ctx, to, subject, body)
	})
	metrics.NotificationsSent.WithLabelValues("email", outcome(err)).Inc()
	return err
}

func (s *NotificationService) deliverSMS(ctx context.Context, phone, message string) error {
	if s.sms == nil {
		return fmt.Errorf("SMS provider not configured")
	}
	err := s.breakers.GetOrCreate("sms").Execute(ctx, func(ctx context.Context) error {
		return s.sms.SendSMS(ctx, phone, message)
	})
	metrics.NotificationsSent.WithLabelValues("sms", outcome(err)).Inc()
	return err
}

func isEmailAddress(address string) bool {
	return strings.Contains(address, "@")
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// SMTPEmailProvider sends plain text mail through an SMTP relay
type SMTPEmailProvider struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPEmailProvider(cfg config.SMTPConfig) *SMTPEmailProvider {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPEmailProvider{
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (p *SMTPEmailProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", p.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(p.addr, p.auth, p.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogEmailProvider writes mail to the application log. Used when SMTP is disabled.
type LogEmailProvider struct{}

func (LogEmailProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	logger.InfoWithContext(ctx, "Email dispatched to log provider").
		String("to", to).
		String("subject", subject).
		String("body", body).
		Log()
	return nil
}

// LogSMSProvider writes text messages to the application log
type LogSMSProvider struct{}

func (LogSMSProvider) SendSMS(ctx context.Context, phone, message string) error {
	logger.InfoWithContext(ctx, "SMS dispatched to log provider").
		String("phone", phone).
		String("message", message).
		Log()
	return nil
}
