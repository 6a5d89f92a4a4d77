package mailer

import (
	"context"
	"crmTracker/internal/config"
	"crmTracker/internal/logger"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	Content     string
	Encoding    string
	ContentType string
}

type Message struct {
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender - отправка готовых писем, в проде это *gomail.Dialer
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	cfg    config.SMTPConfig
	sender Sender
}

// New настраивает SMTP relay; порт 465 - неявный TLS
func New(cfg config.SMTPConfig) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.SSL = cfg.Port == 465
	return &Mailer{cfg: cfg, sender: dialer}
}

func NewWithSender(cfg config.SMTPConfig, sender Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: sender}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// Build собирает письмо, пустые тема и текст заменяются значениями из конфига
func (m *Mailer) Build(msg Message) (*gomail.Message, error) {
	subject := msg.Subject
	if subject == "" {
		subject = m.cfg.DefaultSubject
	}
	text := msg.Text
	if text == "" {
		text = m.cfg.DefaultText
	}

	out := gomail.NewMessage()
	out.SetAddressHeader("From", m.cfg.User, m.cfg.FromName)
	out.SetHeader("To", msg.To...)
	out.SetHeader("Subject", subject)
	out.SetBody("text/plain", text)
	if msg.HTML != "" {
		out.AddAlternative("text/html", msg.HTML)
	}

	for _, a := range msg.Attachments {
		data, err := decode(a)
		if err != nil {
			return nil, fmt.Errorf("вложение %q: %w", a.Filename, err)
		}

		name := a.Filename
		if name == "" {
			name = "attachment"
		}
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		out.Attach(name, settings...)
	}
	return out, nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	built, err := m.Build(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	if err := m.sender.DialAndSend(built); err != nil {
		return fmt.Errorf("отправка письма: %w", err)
	}

	logger.Info("Mailer: Письмо отправлено",
		zap.Int("recipients", len(msg.To)),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func decode(a Attachment) ([]byte, error) {
	switch a.Encoding {
	case "base64":
		return base64.StdEncoding.DecodeString(a.Content)
	case "hex":
		return hex.DecodeString(a.Content)
	case "", "utf8", "utf-8":
		return []byte(a.Content), nil
	}
	return nil, fmt.Errorf("неизвестная кодировка %q", a.Encoding)
}
