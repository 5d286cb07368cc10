package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

const dialTimeout = 5 * time.Second

func NewMailer(host string, port int, username, password, sender string, tp *Template) *SMTPMailer {
	d := mail.NewDialer(host, port, username, password)
	d.Timeout = dialTimeout

	return &SMTPMailer{dialer: d, parser: tp, sender: sender}
}

func (m *SMTPMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	return m.dialer.DialAndSend(msg)
}
