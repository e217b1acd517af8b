package inventory

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
	InventoryCmd struct {
	}
)

func (*InventoryCmd) Name() string     { return "inventory" }
func (*InventoryCmd) Synopsis() string { return "show the blood stock" }
func (*InventoryCmd) Usage() string {
	return `inventory:
  Show the units available per blood group. No login needed.
`
}

func (p *InventoryCmd) SetFlags(f *flag.FlagSet) {
}

func (p *InventoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return show(ctx, os.Stdout, b.API)
	})
}

func show(ctx context.Context, w io.Writer, a *api.API) error {
	res := a.Matching.Inventory(ctx)
	if err := backend.Check(res, "load the inventory"); err != nil {
		return err
	}

	data, err := obj.Decode[obj.Inventory](res)
	if err != nil {
		return fmt.Errorf("failed to read the inventory: %w", err)
	}
	levels, err := obj.Levels(data.Inventory)
	if err != nil {
		return fmt.Errorf("failed to read the inventory: %w", err)
	}
	render.Inventory(w, levels)
	return nil
}
