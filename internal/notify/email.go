package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/BruksfildServices01/fieldops/internal/config"
)

type Attachment struct {
	Name string
	Data []byte
}

type EmailSender struct {
	cfg config.SMTPConfig
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	return s.SendWithAttachments(ctx, msg, nil)
}

func (s *EmailSender) SendWithAttachments(ctx context.Context, msg Message, files []Attachment) error {
	if !s.cfg.Enabled() {
		return ErrChannelDisabled
	}
	if msg.To.Email == "" {
		return ErrNoRecipient
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return fmt.Errorf("email from: %w", err)
	}
	if err := m.To(msg.To.Email); err != nil {
		return fmt.Errorf("email to: %w", err)
	}
	m.Subject(msg.Subject)

	if looksLikeHTML(msg.Body) {
		m.SetBodyString(mail.TypeTextHTML, msg.Body)
	} else {
		m.SetBodyString(mail.TypeTextPlain, msg.Body)
	}

	for _, f := range files {
		if err := m.AttachReader(f.Name, bytes.NewReader(f.Data)); err != nil {
			return fmt.Errorf("attach %s: %w", f.Name, err)
		}
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func looksLikeHTML(body string) bool {
	b := strings.TrimSpace(body)
	return strings.HasPrefix(b, "<")
}
