package login

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/prompt/credentials"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	LoginCmd struct {
		email string
	}
)

func (*LoginCmd) Name() string     { return "login" }
func (*LoginCmd) Synopsis() string { return "log in and keep the session" }
func (*LoginCmd) Usage() string {
	return `login [-email EMAIL]:
  Log in. The session is kept until logout.
`
}

func (p *LoginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.email, "email", "", "email address")
}

func (p *LoginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	creds, err := credentials.Read(p.email)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return login(ctx, os.Stdout, b.API, creds)
	})
}

func login(ctx context.Context, w io.Writer, a *api.API, creds obj.Credentials) error {
	res := a.Auth.Login(ctx, creds)
	if err := backend.Check(res, "log in"); err != nil {
		return err
	}

	data, err := obj.Decode[obj.LoginData](res)
	if err != nil {
		return fmt.Errorf("failed to read the session: %w", err)
	}

	fmt.Fprintf(w, "%s Welcome, %s.\n", res.Data.Message, data.User.Session.Name)
	fmt.Fprintln(w, Next(data.User.Session))
	return nil
}

// Next tells where a freshly logged user goes: special accounts to their
// dashboard, everyone else to the role choice.
func Next(s obj.SessionUser) string {
	switch s.Role {
	case obj.RoleAdmin, obj.RoleBloodBank:
		return "Open your dashboard with: bloodbridge dashboard"
	default:
		return "Choose your role with: bloodbridge role donor|recipient"
	}
}
