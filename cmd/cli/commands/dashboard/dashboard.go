package dashboard

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/render"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	DashboardCmd struct {
	}
)

func (*DashboardCmd) Name() string     { return "dashboard" }
func (*DashboardCmd) Synopsis() string { return "show the dashboard of your role" }
func (*DashboardCmd) Usage() string {
	return `dashboard:
  Show your donations, your requests or the blood bank overview, depending
  on your role.
`
}

func (p *DashboardCmd) SetFlags(f *flag.FlagSet) {
}

func (p *DashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return show(ctx, os.Stdout, b.API)
	})
}

func show(ctx context.Context, w io.Writer, a *api.API) error {
	res := a.Matching.Dashboard(ctx)
	if err := backend.Check(res, "load the dashboard"); err != nil {
		return err
	}

	d, err := obj.Decode[obj.Dashboard](res)
	if err != nil {
		return fmt.Errorf("failed to read the dashboard: %w", err)
	}

	switch d.View {
	case obj.ViewDonor:
		fmt.Fprintln(w, "Your donations")
		render.Donations(w, d.Donations)
	case obj.ViewRecipient:
		fmt.Fprintln(w, "Your requests")
		render.Requests(w, d.Requests)
		fmt.Fprintln(w)
		return inventory(w, d.Inventory)
	case obj.ViewBloodBank:
		return bank(w, d)
	case obj.ViewChooseRole:
		fmt.Fprintln(w, "No role chosen yet.")
		fmt.Fprintln(w, "Choose your role with: bloodbridge role donor|recipient")
	default:
		return fmt.Errorf("unknown dashboard view %q", d.View)
	}
	return nil
}

func bank(w io.Writer, d obj.Dashboard) error {
	fmt.Fprintln(w, "Blood bank overview,", d.Today)
	if d.Stats != nil {
		render.Fields(w, [][2]string{
			{"Donors", strconv.Itoa(d.Stats.TotalDonors)},
			{"Pending requests", strconv.Itoa(d.Stats.PendingRequests)},
			{"Units in stock", strconv.Itoa(d.Stats.TotalUnits)},
			{"Donations today", strconv.Itoa(d.Stats.TodayDonations)},
		})
	}

	fmt.Fprintln(w)
	if err := inventory(w, d.Inventory); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent donors")
	rows := make([][]string, 0, len(d.Donors))
	for _, donor := range d.Donors {
		rows = append(rows, []string{donor.Name, donor.BloodGroup, donor.LastDonation})
	}
	render.Table(w, []string{"NAME", "GROUP", "LAST DONATION"}, rows)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pending requests")
	render.Requests(w, d.Requests)
	return nil
}

func inventory(w io.Writer, raw []byte) error {
	levels, err := obj.Levels(raw)
	if err != nil {
		return fmt.Errorf("failed to read the inventory: %w", err)
	}
	fmt.Fprintln(w, "Inventory")
	render.Inventory(w, levels)
	return nil
}
