// Package backend wires the configuration, the saved session and the API
// surfaces used by every command.
package backend

import (
	"context"
	"fmt"
	"os"

	"bloodbridge/cmd/cli/tools/spinner"
	"bloodbridge/pkg/config"
	"bloodbridge/pkg/logger"
	"bloodbridge/pkg/remote/admin"
	"bloodbridge/pkg/remote/api"
	"bloodbridge/pkg/remote/client"
	"bloodbridge/pkg/remote/obj"
	"bloodbridge/pkg/remote/session"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type (
	Backend struct {
		API     *api.API
		Admin   *admin.API
		Store   *session.Store
		BaseURL string
		Log     zerolog.Logger
	}

	// Failure is returned when the backend refused or never answered a call.
	Failure struct {
		Action string
		Result obj.Result
	}
)

func (f *Failure) Error() string {
	if f.Result.TransportFailed() {
		return fmt.Sprintf("failed to %s: %s", f.Action, f.Result.MessageOr(obj.NetworkErrorMessage))
	}
	return fmt.Sprintf("failed to %s: %s (status %d)", f.Action, f.Result.MessageOr("request refused"), f.Result.Status)
}

// Check turns a result that did not succeed into a *Failure.
func Check(res obj.Result, action string) error {
	if res.Succeeded() {
		return nil
	}
	return &Failure{Action: action, Result: res}
}

// Open loads the configuration and the session saved for the configured
// backend.
func Open() (*Backend, error) {
	c, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Component: "cli",
		Level:     logger.ParseLevel(c.Log.Level),
		Format:    c.Log.Format,
		Output:    os.Stderr,
	})

	store, err := session.Open(c.Remote.SessionDir, c.Remote.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load the session: %w", err)
	}

	cli := client.New(client.Options{
		BaseURL: c.Remote.BaseURL,
		Jar:     store,
		Timeout: c.Remote.Timeout,
		Logger:  &log,
	})
	return New(spinner.Wrap(cli), store, c.Remote.BaseURL, log), nil
}

func New(d client.Doer, store *session.Store, baseURL string, log zerolog.Logger) *Backend {
	return &Backend{
		API:     api.New(d),
		Admin:   admin.New(d),
		Store:   store,
		BaseURL: baseURL,
		Log:     log,
	}
}

// Close saves the session for the next invocation.
func (b *Backend) Close() error {
	if err := b.Store.Flush(); err != nil {
		return fmt.Errorf("failed to save the session: %w", err)
	}
	return nil
}

// Run opens the backend, calls fn and saves the session. Errors are printed
// to stderr.
func Run(ctx context.Context, fn func(ctx context.Context, b *Backend) error) subcommands.ExitStatus {
	b, err := Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	if err := fn(ctx, b); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		status = subcommands.ExitFailure
	}
	if err := b.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		status = subcommands.ExitFailure
	}
	return status
}
