package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/m-mizutani/goerr/v2"
)

// SMTPClient delivers escalation email through a single SMTP endpoint. One
// SendMail call per firing alert carries all recipient addresses.
type SMTPClient struct {
	addr     string
	from     string
	username string
	password string
}

var _ interfaces.EmailClient = &SMTPClient{}

func NewSMTPClient(addr, from, username, password string) *SMTPClient {
	return &SMTPClient{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
	}
}

func (x *SMTPClient) Send(ctx context.Context, addresses []string, payload *mail.Payload) error {
	msg := render(x.from, addresses, payload)

	var auth sasl.Client
	if x.username != "" {
		auth = sasl.NewPlainClient("", x.username, x.password)
	}

	// smtp.SendMail has no context support; honor cancellation by running
	// the call in a goroutine and abandoning it on deadline.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(x.addr, auth, x.from, addresses, strings.NewReader(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return goerr.Wrap(err, "failed to send mail via SMTP",
				goerr.V("addr", x.addr),
				goerr.V("recipients", len(addresses)))
		}
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "SMTP delivery cancelled", goerr.V("addr", x.addr))
	}
}

func render(from string, addresses []string, payload *mail.Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(addresses, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", payload.Subject())
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(payload.Body(), "\n", "\r\n"))
	return b.String()
}
