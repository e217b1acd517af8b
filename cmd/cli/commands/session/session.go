package session

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/render"
	"bloodbridge/pkg/remote/obj"
	remotesession "bloodbridge/pkg/remote/session"

	"github.com/google/subcommands"
)

type (
	SessionCmd struct {
	}
)

func (*SessionCmd) Name() string     { return "session" }
func (*SessionCmd) Synopsis() string { return "show the logged in user" }
func (*SessionCmd) Usage() string {
	return `session:
  Show the user of the current session.
`
}

func (p *SessionCmd) SetFlags(f *flag.FlagSet) {
}

func (p *SessionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return show(ctx, os.Stdout, b)
	})
}

func show(ctx context.Context, w io.Writer, b *backend.Backend) error {
	if !b.Store.Active() {
		return fmt.Errorf("%w, log in first", remotesession.ErrNoSession)
	}

	res := b.API.Auth.Session(ctx)
	if err := backend.Check(res, "load the session"); err != nil {
		return err
	}
	s, err := obj.Decode[obj.SessionUser](res)
	if err != nil {
		return fmt.Errorf("failed to read the session: %w", err)
	}

	fmt.Fprintln(w, "Backend:", b.BaseURL)
	render.Fields(w, [][2]string{
		{"User id", s.UserID},
		{"Name", s.Name},
		{"Email", s.UserEmail},
		{"Role", orNone(s.Role)},
		{"Current role", orNone(s.CurrentRole)},
	})
	return nil
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
