package contact

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/prompt"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	ContactCmd struct {
		msg obj.ContactMessage
	}
)

func (*ContactCmd) Name() string     { return "contact" }
func (*ContactCmd) Synopsis() string { return "send a message to the Blood Bridge team" }
func (*ContactCmd) Usage() string {
	return `contact [-name NAME] [-email EMAIL] [-subject SUBJECT] [-message TEXT]:
  Send a message through the contact form. Missing values are asked for.
`
}

func (p *ContactCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.msg.Name, "name", "", "your name")
	f.StringVar(&p.msg.Email, "email", "", "your email address")
	f.StringVar(&p.msg.Subject, "subject", "", "subject")
	f.StringVar(&p.msg.Message, "message", "", "message")
}

func (p *ContactCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	msg := obj.ContactMessage{
		Name:    prompt.Text("Name", p.msg.Name),
		Email:   prompt.Text("Email", p.msg.Email),
		Subject: prompt.Text("Subject", p.msg.Subject),
		Message: prompt.Text("Message", p.msg.Message),
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return send(ctx, os.Stdout, b.API, msg)
	})
}

func send(ctx context.Context, w io.Writer, a *api.API, msg obj.ContactMessage) error {
	res := a.Health.Contact(ctx, msg)
	if err := backend.Check(res, "send the message"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	return nil
}
