package mailer

import (
	"errors"

	"github.com/oksasatya/cryptopal/pkg/mailer/templates"
)

// ErrNoRecipient marks a job that can never be delivered.
var ErrNoRecipient = errors.New("mailer: email job without recipient")

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // welcome, google_linked
	Data     map[string]any `json:"data,omitempty"`
}

// Message is a fully rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Message renders the job's template, if any, into a deliverable message.
func (j EmailJob) Message() (Message, error) {
	if j.To == "" {
		return Message{}, ErrNoRecipient
	}
	msg := Message{To: j.To, Subject: j.Subject, Text: j.Text, HTML: j.HTML}
	if j.Template == "" {
		return msg, nil
	}
	subject, text, html, err := templates.Render(j.Template, j.Data)
	if err != nil {
		return Message{}, err
	}
	msg.Subject, msg.Text, msg.HTML = subject, text, html
	return msg, nil
}
