package utils

import (
	"fmt"
	"log"

	"wms-engine/config"

	gomail "gopkg.in/gomail.v2"
)

// SendBackorderAlert notifies the purchasing recipients that an order could
// not be fully reserved. Mailing is best effort: a send failure is logged,
// never propagated into the reservation flow.
func SendBackorderAlert(orderNo string, detail string) {
	subject := fmt.Sprintf("[WMS] Backorder: %s", orderNo)
	body := fmt.Sprintf(`
		<h3>Order %s could not be fully reserved</h3>
		<p>%s</p>
		<p>The order stays confirmed and is flagged as backordered. Reserve again once stock arrives.</p>
	`, orderNo, detail)
	sendMail(subject, body)
}

// SendVarianceAlert notifies about a cycle count discrepancy that posted a
// correcting adjustment.
func SendVarianceAlert(countNo string, itemCode string, expected, counted int) {
	subject := fmt.Sprintf("[WMS] Cycle count variance: %s", countNo)
	body := fmt.Sprintf(`
		<h3>Cycle count %s found a variance</h3>
		<p>Item %s: expected %d, counted %d. A correcting adjustment has been posted.</p>
	`, countNo, itemCode, expected, counted)
	sendMail(subject, body)
}

func sendMail(subject, body string) {
	if config.SMTPHost == "" || len(config.AlertRecipients) == 0 {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.SMTPSender)
	m.SetHeader("To", config.AlertRecipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)

	go func() {
		if err := d.DialAndSend(m); err != nil {
			log.Println("failed to send alert mail:", err)
		}
	}()
}
