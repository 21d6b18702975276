package notifier

import (
	"context"
	"strings"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/fatih/color"
)

// ConsoleEmail renders outbound email to stdout instead of delivering it.
// Useful for dry runs and local development without an SMTP server.
type ConsoleEmail struct{}

var _ interfaces.EmailClient = &ConsoleEmail{}

func NewConsoleEmail() *ConsoleEmail {
	return &ConsoleEmail{}
}

func (x *ConsoleEmail) Send(ctx context.Context, addresses []string, payload *mail.Payload) error {
	header := color.New(color.FgYellow, color.Bold)
	body := color.New(color.FgWhite)

	header.Printf("📧 %s\n", payload.Subject())
	body.Printf("To: %s\n", strings.Join(addresses, ", "))
	body.Println(payload.Body())
	return nil
}
