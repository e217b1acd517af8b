package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"bloodbridge/cmd/cli/tools/backend"
	"bloodbridge/cmd/cli/tools/prompt"
	"bloodbridge/cmd/cli/tools/prompt/credentials"
	"bloodbridge/cmd/cli/tools/render"
	"bloodbridge/pkg/remote/admin"
	"bloodbridge/pkg/remote/obj"

	"github.com/google/subcommands"
)

type (
	AdminCmd struct {
		login     bool
		logout    bool
		session   bool
		dashboard bool
		users     bool
		delete    string
		requests  bool
		donations bool
		inventory bool

		email string
		yes   bool
	}

	action func(ctx context.Context, w io.Writer, a *admin.API) error
)

func (*AdminCmd) Name() string     { return "admin" }
func (*AdminCmd) Synopsis() string { return "use the admin portal" }
func (*AdminCmd) Usage() string {
	return `admin -login [-email EMAIL] | -logout | -session | -dashboard | -users |
      -delete USER_ID [-y] | -requests | -donations | -inventory:
  Use the admin portal. The admin session is separate from the user one.
`
}

func (p *AdminCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.login, "login", false, "log in as an admin")
	f.BoolVar(&p.logout, "logout", false, "end the admin session")
	f.BoolVar(&p.session, "session", false, "show the logged in admin")
	f.BoolVar(&p.dashboard, "dashboard", false, "show the system statistics")
	f.BoolVar(&p.users, "users", false, "list the users")
	f.StringVar(&p.delete, "delete", "", "delete the user with this id")
	f.BoolVar(&p.requests, "requests", false, "list every blood request")
	f.BoolVar(&p.donations, "donations", false, "list every donation")
	f.BoolVar(&p.inventory, "inventory", false, "show the blood stock")
	f.StringVar(&p.email, "email", "", "admin email, with -login")
	f.BoolVar(&p.yes, "y", false, "do not ask for confirmation, with -delete")
}

func (p *AdminCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	run, err := p.action()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return subcommands.ExitUsageError
	}

	if p.delete != "" && !p.yes && !prompt.ScanBool(fmt.Sprintf("Delete the user %s?", p.delete), false) {
		fmt.Println("Aborted.")
		return subcommands.ExitSuccess
	}

	if p.login {
		creds, err := credentials.Read(p.email)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return subcommands.ExitFailure
		}
		run = func(ctx context.Context, w io.Writer, a *admin.API) error {
			return login(ctx, w, a, creds)
		}
	}

	return backend.Run(ctx, func(ctx context.Context, b *backend.Backend) error {
		return run(ctx, os.Stdout, b.Admin)
	})
}

// action picks the single requested operation.
func (p *AdminCmd) action() (action, error) {
	var selected []action
	pick := func(set bool, a action) {
		if set {
			selected = append(selected, a)
		}
	}
	pick(p.login, nil)
	pick(p.logout, logout)
	pick(p.session, session)
	pick(p.dashboard, dashboard)
	pick(p.users, users)
	pick(p.delete != "", func(ctx context.Context, w io.Writer, a *admin.API) error {
		return deleteUser(ctx, w, a, p.delete)
	})
	pick(p.requests, requests)
	pick(p.donations, donations)
	pick(p.inventory, inventory)

	switch len(selected) {
	case 0:
		return nil, errors.New("no action given, see: bloodbridge help admin")
	case 1:
		return selected[0], nil
	default:
		return nil, errors.New("only one action at a time")
	}
}

func login(ctx context.Context, w io.Writer, a *admin.API, creds obj.Credentials) error {
	res := a.Auth.Login(ctx, creds)
	if err := backend.Check(res, "log in"); err != nil {
		return err
	}

	data, err := obj.Decode[obj.AdminLogin](res)
	if err != nil {
		return fmt.Errorf("failed to read the admin session: %w", err)
	}
	fmt.Fprintf(w, "%s Welcome, %s.\n", res.Data.Message, data.Admin.AdminName)
	return nil
}

func logout(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Auth.Logout(ctx)
	if err := backend.Check(res, "log out"); err != nil {
		return err
	}
	fmt.Fprintln(w, res.Data.Message)
	return nil
}

func session(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Auth.Session(ctx)
	if err := backend.Check(res, "load the admin session"); err != nil {
		return err
	}
	s, err := obj.Decode[obj.AdminSession](res)
	if err != nil {
		return fmt.Errorf("failed to read the admin session: %w", err)
	}
	render.Fields(w, [][2]string{
		{"Admin id", s.AdminID},
		{"Name", s.AdminName},
		{"Email", s.AdminEmail},
	})
	return nil
}

func dashboard(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Dashboard.Stats(ctx)
	if err := backend.Check(res, "load the dashboard"); err != nil {
		return err
	}
	d, err := obj.Decode[obj.AdminDashboard](res)
	if err != nil {
		return fmt.Errorf("failed to read the dashboard: %w", err)
	}

	s := d.Stats
	render.Fields(w, [][2]string{
		{"Users", strconv.Itoa(s.TotalUsers)},
		{"Donors", strconv.Itoa(s.DonorsCount)},
		{"Recipients", strconv.Itoa(s.RecipientsCount)},
		{"Blood banks", strconv.Itoa(s.BanksCount)},
		{"Requests", strconv.Itoa(s.TotalRequests)},
		{"Pending requests", strconv.Itoa(s.PendingRequests)},
		{"Completed requests", strconv.Itoa(s.CompletedRequests)},
		{"Donations", strconv.Itoa(s.TotalDonations)},
		{"Donations today", strconv.Itoa(s.TodayDonations)},
		{"Units in stock", strconv.Itoa(s.TotalInventory)},
	})
	fmt.Fprintln(w)
	render.Inventory(w, d.Inventory)
	return nil
}

func users(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Users.List(ctx)
	if err := backend.Check(res, "load the users"); err != nil {
		return err
	}
	data, err := obj.Decode[obj.Users](res)
	if err != nil {
		return fmt.Errorf("failed to read the users: %w", err)
	}
	render.Users(w, data.Users)
	return nil
}

func deleteUser(ctx context.Context, w io.Writer, a *admin.API, id string) error {
	res := a.Users.Delete(ctx, id)
	if err := backend.Check(res, "delete the user"); err != nil {
		return err
	}
	fmt.Fprintln(w, res.Data.Message)
	return nil
}

func requests(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Requests.List(ctx)
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

func donations(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Donations.List(ctx)
	if err := backend.Check(res, "load the donations"); err != nil {
		return err
	}
	data, err := obj.Decode[obj.Donations](res)
	if err != nil {
		return fmt.Errorf("failed to read the donations: %w", err)
	}
	render.Donations(w, data.Donations)
	return nil
}

func inventory(ctx context.Context, w io.Writer, a *admin.API) error {
	res := a.Inventory.List(ctx)
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
