package request

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
	RequestCmd struct {
		form obj.BloodRequestForm
	}
)

func (*RequestCmd) Name() string     { return "request" }
func (*RequestCmd) Synopsis() string { return "post a blood request" }
func (*RequestCmd) Usage() string {
	return `request -patient NAME -group GROUP -units N -hospital ADDRESS:
  Post a blood request.
`
}

func (p *RequestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.form.PatientName, "patient", "", "patient name")
	f.StringVar(&p.form.BloodGroup, "group", "", "blood group, e.g. O+")
	f.IntVar(&p.form.Units, "units", 1, "units needed (1-100)")
	f.StringVar(&p.form.Hospital, "hospital", "", "hospital name and address")
}

func (p *RequestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return post(ctx, os.Stdout, b.API, p.form)
	})
}

func post(ctx context.Context, w io.Writer, a *api.API, form obj.BloodRequestForm) error {
	res := a.Requests.Create(ctx, form)
	if err := backend.Check(res, "post the request"); err != nil {
		return err
	}

	fmt.Fprintln(w, res.Data.Message)
	if data, err := obj.Decode[obj.Created](res); err == nil {
		fmt.Fprintln(w, "Request id:", data.RequestID)
	}
	return nil
}
