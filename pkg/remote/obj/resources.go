package obj

import (
	"encoding/json"
	"fmt"
	"slices"
)

// BloodGroups lists the groups known to the backend, in display order.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// LowStockThreshold is the unit count under which an inventory level is
// reported as low.
const LowStockThreshold = 5

// Roles
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleBloodBank = "bloodbank"
	RoleAdmin     = "admin"
)

// Dashboard views
const (
	ViewDonor      = "donor"
	ViewRecipient  = "recipient"
	ViewBloodBank  = "bloodbank"
	ViewChooseRole = "choose_role"
)

// Payloads sent to the backend.
type (
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	Registration struct {
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		Password   string  `json:"password"`
		BloodGroup *string `json:"blood_group"`
		AdminCode  string  `json:"admin_code"`
	}

	RoleChoice struct {
		Role string `json:"role_choice"`
	}

	DonationSlot struct {
		DonationDate string `json:"donation_date"`
		BloodGroup   string `json:"blood_group"`
		Location     string `json:"location"`
		TimeSlot     string `json:"time_slot"`
	}

	BloodRequestForm struct {
		PatientName string `json:"patient_name"`
		BloodGroup  string `json:"blood_group"`
		Units       int    `json:"units"`
		Hospital    string `json:"hospital"`
	}

	ContactMessage struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
)

// Resources returned by the user-facing endpoints.
type (
	SessionUser struct {
		UserID      string `json:"user_id"`
		Name        string `json:"name"`
		UserEmail   string `json:"user_email"`
		Role        string `json:"role"`
		CurrentRole string `json:"current_role"`
	}

	LoginData struct {
		User LoggedUser `json:"user"`
	}

	LoggedUser struct {
		User
		Session SessionUser `json:"session"`
	}

	Registered struct {
		UserID  string `json:"user_id,omitempty"`
		AdminID string `json:"admin_id,omitempty"`
		IsAdmin bool   `json:"is_admin"`
	}

	RoleData struct {
		CurrentRole string `json:"current_role"`
	}

	Donation struct {
		ID         string `json:"id"`
		DonorID    string `json:"donor_id"`
		DonorName  string `json:"donor_name"`
		BloodGroup string `json:"blood_group"`
		Date       string `json:"date"`
		Location   string `json:"location"`
		TimeSlot   string `json:"time_slot"`
		Status     string `json:"status"`
	}

	BloodRequest struct {
		ID             string `json:"id"`
		RequesterID    string `json:"requester_id"`
		PatientName    string `json:"patient_name"`
		BloodGroup     string `json:"blood_group"`
		Units          any    `json:"units"`
		Hospital       string `json:"hospital"`
		Status         string `json:"status"`
		Timestamp      string `json:"timestamp"`
		AvailableUnits *int   `json:"available_units,omitempty"`
		IsAvailable    *bool  `json:"is_available,omitempty"`
	}

	InventoryItem struct {
		Group string `json:"group"`
		Units int    `json:"units"`
	}

	Inventory struct {
		Inventory json.RawMessage `json:"inventory"`
	}

	Donations struct {
		Donations []Donation `json:"donations"`
	}

	BloodRequests struct {
		Requests  []BloodRequest  `json:"requests"`
		Inventory json.RawMessage `json:"inventory,omitempty"`
	}

	Created struct {
		RequestID  string `json:"request_id,omitempty"`
		DonationID string `json:"donation_id,omitempty"`
	}

	BankStats struct {
		TotalDonors     int `json:"total_donors"`
		PendingRequests int `json:"pending_requests"`
		TotalUnits      int `json:"total_units"`
		TodayDonations  int `json:"today_donations"`
	}

	RecentDonor struct {
		Name         string `json:"name"`
		BloodGroup   string `json:"blood_group"`
		LastDonation string `json:"last_donation"`
	}

	// Dashboard is the role dependent payload of the matching dashboard;
	// which fields are set depends on View.
	Dashboard struct {
		View      string          `json:"view"`
		Donations []Donation      `json:"donations,omitempty"`
		Requests  []BloodRequest  `json:"requests,omitempty"`
		Inventory json.RawMessage `json:"inventory,omitempty"`
		Stats     *BankStats      `json:"stats,omitempty"`
		Donors    []RecentDonor   `json:"donors,omitempty"`
		Today     string          `json:"today,omitempty"`
	}

	HealthStatus struct {
		Database string `json:"database"`
	}
)

// Resources returned by the administrative endpoints.
type (
	User struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Role        *string `json:"role"`
		CurrentRole *string `json:"current_role"`
		BloodGroup  *string `json:"blood_group"`
	}

	Users struct {
		Users []User `json:"users"`
	}

	AdminSession struct {
		AdminID    string `json:"admin_id"`
		AdminName  string `json:"admin_name"`
		AdminEmail string `json:"admin_email"`
	}

	AdminLogin struct {
		Admin AdminSession `json:"admin"`
	}

	AdminStats struct {
		TotalUsers        int `json:"total_users"`
		DonorsCount       int `json:"donors_count"`
		RecipientsCount   int `json:"recipients_count"`
		BanksCount        int `json:"banks_count"`
		TotalRequests     int `json:"total_requests"`
		PendingRequests   int `json:"pending_requests"`
		CompletedRequests int `json:"completed_requests"`
		TotalDonations    int `json:"total_donations"`
		TodayDonations    int `json:"today_donations"`
		TotalInventory    int `json:"total_inventory"`
	}

	AdminDashboard struct {
		Stats     AdminStats      `json:"stats"`
		Inventory []InventoryItem `json:"inventory"`
	}
)

// RoleName returns the role of u, "user" when the backend stored none.
func (u User) RoleName() string {
	if u.Role == nil || *u.Role == "" {
		return "user"
	}
	return *u.Role
}

func (i InventoryItem) Low() bool {
	return i.Units < LowStockThreshold
}

// Levels decodes an inventory sent either as a list of {group, units} or as a
// group to units map. Known groups come first in BloodGroups order.
func Levels(raw json.RawMessage) ([]InventoryItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []InventoryItem
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unsupported inventory format: %w", err)
	}

	items := make([]InventoryItem, 0, len(m))
	for _, g := range BloodGroups {
		if units, ok := m[g]; ok {
			items = append(items, InventoryItem{Group: g, Units: units})
			delete(m, g)
		}
	}
	rest := make([]string, 0, len(m))
	for g := range m {
		rest = append(rest, g)
	}
	slices.Sort(rest)
	for _, g := range rest {
		items = append(items, InventoryItem{Group: g, Units: m[g]})
	}
	return items, nil
}

// UnitsText renders the units field whatever JSON type the backend used.
func (b BloodRequest) UnitsText() string {
	switch v := b.Units.(type) {
	case nil:
		return ""
	case float64:
		return fmt.Sprintf("%g", v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
