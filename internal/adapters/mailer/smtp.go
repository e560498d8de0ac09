package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
)

var shareBody = template.Must(template.New("share").Parse(`Hello,

{{if .SenderName}}{{.SenderName}}{{else}}Someone{{end}} shared a video with you: {{.VideoTitle}}
{{if .Message}}
"{{.Message}}"
{{end}}
Watch it here: {{.ShareURL}}
`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers share emails through a plain SMTP relay
type SMTPMailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	send   sendFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewSMTPMailer creates SMTPMailer that implements port.Mailer
func NewSMTPMailer(cfg config.ShareConfig, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:   auth,
		from:   cfg.FromAddress,
		send:   smtp.SendMail,
		now:    time.Now,
		logger: logger,
	}
}

var _ port.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendShareEmail(ctx context.Context, mail domain.ShareEmail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("%w: recipients", domain.ErrMissingField)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(mail)
	if err != nil {
		return err
	}

	if err := m.send(m.addr, m.auth, m.from, mail.To, msg); err != nil {
		m.logger.Error("share email failed", "recipients", len(mail.To), "error", err)
		return fmt.Errorf("error sending share email: %w", err)
	}
	m.logger.Info("share email sent", "recipients", len(mail.To), "url", mail.ShareURL)
	return nil
}

func (m *SMTPMailer) compose(mail domain.ShareEmail) ([]byte, error) {
	var body bytes.Buffer
	if err := shareBody.Execute(&body, mail); err != nil {
		return nil, fmt.Errorf("error rendering share email: %w", err)
	}

	subject := "A video was shared with you"
	if mail.SenderName != "" {
		subject = mail.SenderName + " shared a video with you"
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(mail.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", m.now().UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}
