package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/ekermen/crowdcheck/util"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send renders the named template with data and mails it to the recipient.
// Templates define "subject" and "htmlBody" blocks.
func (m *Mailer) Send(recipient string, data interface{}, templateName string) error {
	tmpl, err := template.New(templateName).Funcs(util.TemplateFuncs).ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		return errors.Wrap(err, "parsing email template")
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return errors.Wrap(err, "executing subject template")
	}

	htmlBody := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
		return errors.Wrap(err, "executing htmlBody template")
	}

	msg := new(bytes.Buffer)
	fmt.Fprintf(msg, "From: %s\r\n", m.from)
	fmt.Fprintf(msg, "To: %s\r\n", recipient)
	fmt.Fprintf(msg, "Subject: %s\r\n", subject.String())
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody.Bytes())

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, msg.Bytes()); err != nil {
		return errors.Wrap(err, "sending email")
	}
	return nil
}
