package mailer

// Service sends guest-facing mail. Implementations: MailerSend, SMTP, Dev.
type Service interface {
	Send(toEmail, toName, subject, text, html string) error
	SendBill(toEmail, toName, hotelName, billURL string) error
}
