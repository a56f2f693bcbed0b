package notify

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

func getSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	portEnv := os.Getenv("SMTP_PORT")
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(
		host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

// MailNotifier delivers notifications over SMTP to a fixed recipient.
// Failures are logged and dropped.
type MailNotifier struct {
	From     string
	FromName string
	To       string
}

func NewMailNotifier(to string) *MailNotifier {
	return &MailNotifier{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Bus Pass Portal",
		To:       to,
	}
}

func (n *MailNotifier) Notify(title string, description string, severity string) {
	c, err := getSMTPClient()
	if err != nil {
		return
	}
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.FromName, n.From); err != nil {
		log.Printf("Failed to set From address: %s\n", err.Error())
	}
	if err := msg.To(n.To); err != nil {
		log.Printf("Failed to set To address: %s\n", err.Error())
	}
	msg.Subject(fmt.Sprintf("[%s] %s", severity, title))
	msg.SetBodyString(mail.TypeTextPlain, description)
	if err := c.DialAndSend(msg); err != nil {
		log.Printf("Failed to send notification mail to %s: %s\n", n.To, err.Error())
	}
}
