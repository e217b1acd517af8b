package version

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/pkg/constants"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	VersionCmd struct {
		remote bool
	}
)

func (*VersionCmd) Name() string     { return "version" }
func (*VersionCmd) Synopsis() string { return "show version and system information" }
func (*VersionCmd) Usage() string {
	return `version [-a]:
  Show version and system information
`
}

func (p *VersionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.remote, "a", false, "check the configured backend too")
}

func (p *VersionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	local(os.Stdout)
	if !p.remote {
		return subcommands.ExitSuccess
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return remote(ctx, os.Stdout, b.API, b.BaseURL)
	})
}

func local(w io.Writer) {
	fmt.Fprintln(w, "Client: Blood Bridge cli")
	fmt.Fprintln(w, " Version:       "+constants.Version)
	fmt.Fprintln(w, " API version:   "+strconv.Itoa(constants.ApiVersion))
	fmt.Fprintln(w, " Go version:    "+runtime.Version())
	fmt.Fprintln(w, " OS/Arch:       "+runtime.GOOS+"/"+runtime.GOARCH)
}

// remote reports the database state even when the backend answers 503.
func remote(ctx context.Context, w io.Writer, a *api.API, url string) error {
	res := a.Health.Status(ctx)
	if res.TransportFailed() {
		return fmt.Errorf("failed to connect to the remote: %s", res.Data.Message)
	}

	status, err := obj.Decode[obj.HealthStatus](res)
	if err != nil {
		return fmt.Errorf("failed to read the health status (status %d): %w", res.Status, err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remote:", url)
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, " Status:        "+strconv.Itoa(res.Status))
	fmt.Fprintln(w, " Database:      "+status.Database)
	return nil
}
