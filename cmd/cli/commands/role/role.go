package role

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	RoleCmd struct {
	}
)

func (*RoleCmd) Name() string     { return "role" }
func (*RoleCmd) Synopsis() string { return "act as a donor or as a recipient" }
func (*RoleCmd) Usage() string {
	return `role donor|recipient:
  Choose the role used by the dashboard.
`
}

func (p *RoleCmd) SetFlags(f *flag.FlagSet) {
}

func (p *RoleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: expected donor or recipient")
		return subcommands.ExitUsageError
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return choose(ctx, os.Stdout, b.API, f.Arg(0))
	})
}

func choose(ctx context.Context, w io.Writer, a *api.API, role string) error {
	res := a.Auth.ChooseRole(ctx, obj.RoleChoice{Role: role})
	if err := backend.Check(res, "change the role"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	if data, err := obj.Decode[obj.RoleData](res); err == nil {
		fmt.Fprintln(w, "Current role:", data.CurrentRole)
	}
	return nil
}
