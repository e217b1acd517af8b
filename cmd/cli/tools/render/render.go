// Package render prints backend resources as plain tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"bloodbridge/pkg/remote/obj"
)

// Table prints header, a separator line and one line per row, columns
// separated by " | ".
func Table(w io.Writer, header []string, rows [][]string) {
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}

	fmt.Fprintln(w, strings.Join(header, " | "))
	fmt.Fprintln(w, strings.Join(dashes, " | "))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, " | "))
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(empty)")
	}
}

// Fields prints one "label: value" line per pair, values aligned.
func Fields(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(w, " %-*s %s\n", width+1, p[0]+":", p[1])
	}
}

func Donations(w io.Writer, donations []obj.Donation) {
	rows := make([][]string, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, []string{d.ID, d.Date, or(d.TimeSlot, "-"), d.BloodGroup, d.Location, d.DonorName, d.Status})
	}
	Table(w, []string{"ID", "DATE", "TIME", "GROUP", "LOCATION", "DONOR", "STATUS"}, rows)
}

// Requests adds the availability columns when the backend computed them.
func Requests(w io.Writer, requests []obj.BloodRequest) {
	header := []string{"ID", "DATE", "PATIENT", "GROUP", "UNITS", "HOSPITAL", "STATUS"}
	withAvailability := false
	for _, r := range requests {
		if r.IsAvailable != nil {
			withAvailability = true
			break
		}
	}
	if withAvailability {
		header = append(header, "IN STOCK", "AVAILABLE")
	}

	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		row := []string{r.ID, r.Timestamp, r.PatientName, r.BloodGroup, r.UnitsText(), r.Hospital, r.Status}
		if withAvailability {
			row = append(row, intOr(r.AvailableUnits), yesNo(r.IsAvailable))
		}
		rows = append(rows, row)
	}
	Table(w, header, rows)
}

func Inventory(w io.Writer, items []obj.InventoryItem) {
	rows := make([][]string, 0, len(items))
	for _, i := range items {
		stock := "ok"
		if i.Low() {
			stock = "low"
		}
		rows = append(rows, []string{i.Group, strconv.Itoa(i.Units), stock})
	}
	Table(w, []string{"GROUP", "UNITS", "STOCK"}, rows)
}

func Users(w io.Writer, users []obj.User) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.RoleName(), deref(u.CurrentRole), deref(u.BloodGroup)})
	}
	Table(w, []string{"ID", "NAME", "EMAIL", "ROLE", "CURRENT ROLE", "GROUP"}, rows)
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func deref(v *string) string {
	if v == nil {
		return "-"
	}
	return or(*v, "-")
}

func intOr(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return "-"
	case *v:
		return "yes"
	default:
		return "no"
	}
}
