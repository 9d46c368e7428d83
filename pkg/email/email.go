package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

type sender struct {
	adress string
	pw     string
	host   string
}

// Mail delivers an email from a sender to a recipient
type Mail struct {
	sender sender
	server string
}

// NewEmail creates a sender with adress, host, and password
func NewEmail(fromAdress, fromServer, fromPassword string) (m *Mail) {
	m = new(Mail)
	m.server = fromServer
	host := strings.Split(fromServer, ":")[0]
	m.sender = sender{
		adress: fromAdress,
		pw:     fromPassword,
		host:   host,
	}

	return m
}

// Send composes the actual message and delivers it via the configured mail server
func (m *Mail) Send(subject, body string, to []string) error {
	auth := smtp.PlainAuth(
		"",
		m.sender.adress,
		m.sender.pw,
		m.sender.host,
	)

	msg := compose(m.sender.adress, subject, body, to)
	err := smtp.SendMail(m.server, auth, m.sender.adress, to, msg)

	return err
}

func compose(from, subjectLine, body string, to []string) []byte {
	text := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from,
		strings.Join(to, ","),
		subjectLine,
		body,
	)

	return []byte(text)
}
