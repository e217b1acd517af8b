package unregister

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/prompt"
	"bloodbridge/pkg/remote/api"

	"github.com/google/subcommands"
)

type (
	UnregisterCmd struct {
		yes bool
	}
)

func (*UnregisterCmd) Name() string     { return "unregister" }
func (*UnregisterCmd) Synopsis() string { return "delete a user account" }
func (*UnregisterCmd) Usage() string {
	return `unregister [-y] USER_ID:
  Delete a user account. Requires an account with the admin role.
`
}

func (p *UnregisterCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.yes, "y", false, "do not ask for confirmation")
}

func (p *UnregisterCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: missing user id")
		return subcommands.ExitUsageError
	}

	id := f.Arg(0)
	if !p.yes && !prompt.ScanBool(fmt.Sprintf("Delete the user %s?", id), false) {
		fmt.Println("Aborted.")
		return subcommands.ExitSuccess
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return unregister(ctx, os.Stdout, b.API, id)
	})
}

func unregister(ctx context.Context, w io.Writer, a *api.API, id string) error {
	res := a.Auth.DeleteUser(ctx, id)
	if err := backend.Check(res, "delete the user"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	return nil
}
