package main

import (
	"context"
	"flag"
	"os"

	"bloodbridge/cmd/cli/commands/admin"
	"bloodbridge/cmd/cli/commands/contact"
	"bloodbridge/cmd/cli/commands/dashboard"
	"bloodbridge/cmd/cli/commands/donations"
	"bloodbridge/cmd/cli/commands/inventory"
	"bloodbridge/cmd/cli/commands/login"
	"bloodbridge/cmd/cli/commands/logout"
	"bloodbridge/cmd/cli/commands/register"
	"bloodbridge/cmd/cli/commands/request"
	"bloodbridge/cmd/cli/commands/requests"
	"bloodbridge/cmd/cli/commands/role"
	"bloodbridge/cmd/cli/commands/schedule"
	"bloodbridge/cmd/cli/commands/session"
	"bloodbridge/cmd/cli/commands/unregister"
	"bloodbridge/cmd/cli/commands/version"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "help")
	subcommands.Register(subcommands.FlagsCommand(), "help")
	subcommands.Register(subcommands.CommandsCommand(), "help")
	subcommands.Register(&version.VersionCmd{}, "help")

	subcommands.Register(&register.RegisterCmd{}, "account")
	subcommands.Register(&login.LoginCmd{}, "account")
	subcommands.Register(&logout.LogoutCmd{}, "account")
	subcommands.Register(&session.SessionCmd{}, "account")
	subcommands.Register(&role.RoleCmd{}, "account")
	subcommands.Register(&unregister.UnregisterCmd{}, "account")

	subcommands.Register(&donations.DonationsCmd{}, "donors")
	subcommands.Register(&schedule.ScheduleCmd{}, "donors")

	subcommands.Register(&request.RequestCmd{}, "recipients")
	subcommands.Register(&requests.RequestsCmd{}, "recipients")

	subcommands.Register(&inventory.InventoryCmd{}, "matching")
	subcommands.Register(&dashboard.DashboardCmd{}, "matching")
	subcommands.Register(&contact.ContactCmd{}, "matching")

	subcommands.Register(&admin.AdminCmd{}, "admin")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
