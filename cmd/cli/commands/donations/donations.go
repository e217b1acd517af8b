package donations

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/render"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	DonationsCmd struct {
	}
)

func (*DonationsCmd) Name() string     { return "donations" }
func (*DonationsCmd) Synopsis() string { return "list your donations" }
func (*DonationsCmd) Usage() string {
	return `donations:
  List the donations you scheduled.
`
}

func (p *DonationsCmd) SetFlags(f *flag.FlagSet) {
}

func (p *DonationsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return list(ctx, os.Stdout, b.API)
	})
}

func list(ctx context.Context, w io.Writer, a *api.API) error {
	res := a.Donors.MyDonations(ctx)
	if err := backend.Check(res, "load your donations"); err != nil {
		return err
	}

	data, err := obj.Decode[obj.Donations](res)
	if err != nil {
		return fmt.Errorf("failed to read the donations: %w", err)
	}
	render.Donations(w, data.Donations)
	return nil
}
