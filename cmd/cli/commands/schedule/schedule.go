package schedule

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
	ScheduleCmd struct {
		slot obj.DonationSlot
	}
)

func (*ScheduleCmd) Name() string     { return "schedule" }
func (*ScheduleCmd) Synopsis() string { return "schedule a donation" }
func (*ScheduleCmd) Usage() string {
	return `schedule -date YYYY-MM-DD -group GROUP -location PLACE [-time SLOT]:
  Schedule a blood donation.
`
}

func (p *ScheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.slot.DonationDate, "date", "", "donation date, YYYY-MM-DD")
	f.StringVar(&p.slot.BloodGroup, "group", "", "blood group, e.g. O+")
	f.StringVar(&p.slot.Location, "location", "", "donation center")
	f.StringVar(&p.slot.TimeSlot, "time", "", "time slot, e.g. 09:00-10:00")
}

func (p *ScheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return schedule(ctx, os.Stdout, b.API, p.slot)
	})
}

func schedule(ctx context.Context, w io.Writer, a *api.API, slot obj.DonationSlot) error {
	res := a.Donors.Schedule(ctx, slot)
	if err := backend.Check(res, "schedule the donation"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	if data, err := obj.Decode[obj.Created](res); err == nil {
		fmt.Fprintln(w, "Donation id:", data.DonationID)
	}
	return nil
}
