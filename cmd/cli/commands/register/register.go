package register

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/prompt"
	"bloodbridge/cmd/cli/tools/prompt/credentials"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	RegisterCmd struct {
		name       string
		email      string
		bloodGroup string
		adminCode  string
	}
)

func (*RegisterCmd) Name() string     { return "register" }
func (*RegisterCmd) Synopsis() string { return "create an account" }
func (*RegisterCmd) Usage() string {
	return `register [-name NAME] [-email EMAIL] [-group GROUP] [-admin-code CODE]:
  Create an account. With a valid admin code the account is created in the
  admin portal instead.
`
}

func (p *RegisterCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "full name")
	f.StringVar(&p.email, "email", "", "email address")
	f.StringVar(&p.bloodGroup, "group", "", "blood group, e.g. O+")
	f.StringVar(&p.adminCode, "admin-code", "", "admin registration code")
}

func (p *RegisterCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	reg := obj.Registration{
		Name:      prompt.Text("Enter name", p.name),
		Email:     prompt.Text("Enter email", p.email),
		AdminCode: p.adminCode,
	}
	if p.bloodGroup != "" {
		reg.BloodGroup = &p.bloodGroup
	}

	password, err := credentials.Password("Choose a password")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}
	reg.Password = password

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return register(ctx, os.Stdout, b.API, reg)
	})
}

func register(ctx context.Context, w io.Writer, a *api.API, reg obj.Registration) error {
	res := a.Auth.Register(ctx, reg)
	if err := backend.Check(res, "register"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	out, err := obj.Decode[obj.Registered](res)
	if err != nil {
		// the account exists, only the ids are missing
		return nil
	}
	if out.IsAdmin {
		fmt.Fprintln(w, "Admin id:", out.AdminID)
		fmt.Fprintln(w, "Log in with: bloodbridge admin -login")
		return nil
	}
	fmt.Fprintln(w, "User id:", out.UserID)
	fmt.Fprintln(w, "Log in with: bloodbridge login")
	return nil
}
