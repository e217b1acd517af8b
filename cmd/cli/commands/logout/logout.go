package logout

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"

	"github.com/google/subcommands"
)

type (
	LogoutCmd struct {
	}
)

func (*LogoutCmd) Name() string     { return "logout" }
func (*LogoutCmd) Synopsis() string { return "end the session" }
func (*LogoutCmd) Usage() string {
	return `logout:
  End the session on the backend and forget it locally.
`
}

func (p *LogoutCmd) SetFlags(f *flag.FlagSet) {
}

func (p *LogoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return logout(ctx, os.Stdout, b)
	})
}

// logout forgets the local session even when the backend cannot be reached.
func logout(ctx context.Context, w io.Writer, b *backend.Backend) error {
	res := b.API.Auth.Logout(ctx)
	if err := b.Store.Clear(); err != nil {
		return err
	}
	if err := backend.Check(res, "log out"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	return nil
}
