package mail

import "github.com/designarthur/catdump/internal/utils"

// Sender delivers a rendered message. Actual delivery (SMTP, provider API)
// lives outside this service; handlers only ever see this interface.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// LogSender is the default Sender: it records that a send would happen and
// drops the body. Used in development and tests.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody string) error {
	utils.LogEvent("", "mail", "send", "to="+to+" subject="+subject)
	return nil
}
