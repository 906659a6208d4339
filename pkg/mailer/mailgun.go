package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailgun sends rendered emails through the Mailgun API.
type Mailgun struct {
	From    string
	Timeout time.Duration
	client  mg.Mailgun
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{From: from, Timeout: 10 * time.Second, client: mg.NewMailgun(domain, apiKey)}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	out := m.client.NewMessage(m.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, out)
	return err
}

var _ Sender = (*Mailgun)(nil)
