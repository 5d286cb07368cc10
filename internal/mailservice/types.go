package mailservice

import (
	"bytes"
	"context"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/bloglist/internal/common"
)

// MailService ties the user.created consumer to an SMTP mailer. cancel stops
// the consumer goroutine on shutdown.
type MailService struct {
	mb     common.MessageConsumer
	m      Mailer
	logger MailLogger
	ctx    context.Context
	cancel context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

// Mailer renders the named template with data and delivers it to recipient.
type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// Dialer is satisfied by mail.Dialer; tests substitute a mock.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// TemplateParser renders a template file into subject, plain and HTML bodies.
type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// SMTPMailer delivers one message at a time over a shared dialer.
type SMTPMailer struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Template struct{}
