package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) Send(toEmail, toName, subject, text, html string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}

func (m *MailerSendClient) SendBill(toEmail, toName, hotelName, billURL string) error {
	subject := fmt.Sprintf("Your bill from %s", hotelName)
	html := fmt.Sprintf(`
		<h2>Thank you for staying with %s!</h2>
		<p>Hi %s,</p>
		<p>Your stay is complete. You can view your bill any time using the link below:</p>
		<p><a href="%s" style="background-color: #1a73e8; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View Bill</a></p>
		<p>This link is valid for one year.</p>
	`, hotelName, toName, billURL)

	text := fmt.Sprintf("Thank you for staying with %s! View your bill here: %s", hotelName, billURL)

	return m.Send(toEmail, toName, subject, text, html)
}
