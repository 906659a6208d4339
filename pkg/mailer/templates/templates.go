// Package templates renders the transactional emails sent by the email worker.
package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Template names accepted in EmailJob.Template.
const (
	Welcome      = "welcome"
	GoogleLinked = "google_linked"
)

// WelcomeData feeds the welcome and google_linked templates.
type WelcomeData struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Provider     string `json:"provider"`
	CompanyName  string `json:"company_name"`
	DashboardURL string `json:"dashboard_url"`
	SupportURL   string `json:"support_url"`
}

// ToMap converts WelcomeData to EmailJob.Data.
func (d WelcomeData) ToMap() map[string]any {
	return map[string]any{
		"name":          d.Name,
		"email":         d.Email,
		"provider":      d.Provider,
		"company_name":  d.CompanyName,
		"dashboard_url": d.DashboardURL,
		"support_url":   d.SupportURL,
	}
}

type entry struct {
	subject string
	text    *texttpl.Template
	html    *htmpl.Template
}

var registry = map[string]entry{
	Welcome: {
		subject: "Welcome to {{.company_name}}",
		text: texttpl.Must(texttpl.New("welcome.txt").Parse(
			"Hi {{.name}},\n\nYour {{.company_name}} account ({{.email}}) is ready. " +
				"Track markets and star your favorite coins at {{.dashboard_url}}.\n" +
				"{{if .support_url}}\nNeed help? {{.support_url}}\n{{end}}")),
		html: htmpl.Must(htmpl.New("welcome.html").Parse(
			`<p>Hi {{.name}},</p><p>Your {{.company_name}} account (<b>{{.email}}</b>) is ready.</p>` +
				`<p><a href="{{.dashboard_url}}">Open your dashboard</a> to track markets and star your favorite coins.</p>` +
				`{{if .support_url}}<p>Need help? <a href="{{.support_url}}">Contact support</a></p>{{end}}`)),
	},
	GoogleLinked: {
		subject: "Google sign-in linked to your {{.company_name}} account",
		text: texttpl.Must(texttpl.New("google_linked.txt").Parse(
			"Hi {{.name}},\n\nGoogle sign-in is now linked to {{.email}}. " +
				"If this wasn't you, contact {{if .support_url}}{{.support_url}}{{else}}support{{end}}.\n")),
		html: htmpl.Must(htmpl.New("google_linked.html").Parse(
			`<p>Hi {{.name}},</p><p>Google sign-in is now linked to <b>{{.email}}</b>.</p>` +
				`<p>If this wasn't you, contact {{if .support_url}}<a href="{{.support_url}}">support</a>{{else}}support{{end}}.</p>`)),
	},
}

// Render returns subject, plain text and HTML bodies for the named template.
func Render(name string, data map[string]any) (string, string, string, error) {
	s, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	subject, err := execText(texttpl.Must(texttpl.New("subject").Parse(s.subject)), data)
	if err != nil {
		return "", "", "", err
	}
	text, err := execText(s.text, data)
	if err != nil {
		return "", "", "", err
	}
	var html bytes.Buffer
	if err := s.html.Execute(&html, data); err != nil {
		return "", "", "", err
	}
	return subject, text, html.String(), nil
}

func execText(t *texttpl.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
