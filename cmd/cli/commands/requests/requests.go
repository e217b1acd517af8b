package requests

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
	RequestsCmd struct {
		my      bool
		pending bool
		all     bool
	}

	Scope int
)

const (
	Mine Scope = iota
	Pending
	All
)

func (*RequestsCmd) Name() string     { return "requests" }
func (*RequestsCmd) Synopsis() string { return "list blood requests" }
func (*RequestsCmd) Usage() string {
	return `requests [-my | -pending | -all]:
  List your requests with their availability (default), the pending
  requests, or every request (admin role only).
`
}

func (p *RequestsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.my, "my", false, "list your requests with their availability")
	f.BoolVar(&p.pending, "pending", false, "list the pending requests")
	f.BoolVar(&p.all, "all", false, "list every request")
}

func (p *RequestsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	scope := Mine
	selected := 0
	for _, opt := range []struct {
		set   bool
		scope Scope
	}{{p.my, Mine}, {p.pending, Pending}, {p.all, All}} {
		if opt.set {
			scope = opt.scope
			selected++
		}
	}
	if selected > 1 {
		fmt.Fprintln(os.Stderr, "error: -my, -pending and -all are exclusive")
		return subcommands.ExitUsageError
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return list(ctx, os.Stdout, b.API, scope)
	})
}

func list(ctx context.Context, w io.Writer, a *api.API, scope Scope) error {
	var res obj.Result
	switch scope {
	case Pending:
		res = a.Requests.Pending(ctx)
	case All:
		res = a.Requests.All(ctx)
	default:
		res = a.Requests.My(ctx)
	}
	if err := backend.Check(res, "load the requests"); err != nil {
		return err
	}

	data, err := obj.Decode[obj.BloodRequests](res)
	if err != nil {
		return fmt.Errorf("failed to read the requests: %w", err)
	}
	render.Requests(w, data.Requests)
	return nil
}
