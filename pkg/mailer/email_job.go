package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateWelcome is the only template currently rendered by the worker.
const TemplateWelcome = "welcome"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Subject/Text/HTML may be set directly, or Template + Data used to render
// them in the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

var welcomeText = template.Must(template.New("welcome").Parse(
	"Hi {{.Name}},\n\nWelcome aboard! Your account is ready.\n" +
		"Fill out your profile and start following people you know.\n",
))

// Render produces subject, text and HTML bodies for a templated job.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if job.Template != TemplateWelcome {
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
	var buf bytes.Buffer
	if err := welcomeText.Execute(&buf, job.Data); err != nil {
		return "", "", "", err
	}
	return "Welcome!", buf.String(), "", nil
}
