package mailer

import (
	"fmt"

	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

// DevMailer logs outgoing mail instead of delivering it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) error {
	logger.Info("dev mailer: email suppressed",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"text", text,
	)
	return nil
}

func (d *DevMailer) SendBill(toEmail, toName, hotelName, billURL string) error {
	subject := fmt.Sprintf("Your bill from %s", hotelName)
	logger.Info("dev mailer: bill email suppressed",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"bill_url", billURL,
	)
	return nil
}
