package remotetest

import (
	"net/http"
	"strings"

	"bloodbridge/pkg/remote/obj"
)

func (s *Server) adminLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decode(r, &in); err != nil {
		unauthorized(missing["login"], w)
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if msg := check("login", in); msg != "" {
		unauthorized(msg, w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := findByEmail(s.admins, in.Email)
	if a == nil || !a.matches(in.Password) {
		unauthorized("Invalid email or password.", w)
		return
	}

	sess := sessionFrom(r)
	sess.AdminID = a.ID
	sess.AdminName = a.Name
	sess.AdminEmail = a.Email
	s.start(w, sess)

	ok("Admin login successful.", obj.AdminLogin{Admin: sess.admin()}, w)
}

// adminLogout leaves the user session alone.
func (s *Server) adminLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sess := sessionFrom(r)
	sess.AdminID, sess.AdminName, sess.AdminEmail = "", "", ""
	s.mu.Unlock()

	ok("Admin logged out.", nil, w)
}

func (s *Server) adminSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := sessionFrom(r)
	if sess.AdminID == "" {
		unauthorized("Not authenticated as admin.", w)
		return
	}
	ok("OK", sess.admin(), w)
}

func (s *Server) adminDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock := s.stock()
	requesters := make(map[string]struct{})
	stats := obj.AdminStats{
		TotalUsers:     len(s.users),
		DonorsCount:    s.distinctDonors(),
		TotalRequests:  len(s.requests),
		TotalDonations: len(s.donations),
		TodayDonations: s.donationsOn(s.now().Format("2006-01-02")),
		TotalInventory: total(stock),
	}
	for _, u := range s.users {
		if u.Role == obj.RoleBloodBank {
			stats.BanksCount++
		}
	}
	for _, b := range s.requests {
		switch b.Status {
		case "pending":
			stats.PendingRequests++
		case "fulfilled":
			stats.CompletedRequests++
		}
		if b.RequesterID != "" {
			requesters[b.RequesterID] = struct{}{}
		}
	}
	stats.RecipientsCount = len(requesters)

	ok("OK", obj.AdminDashboard{Stats: stats, Inventory: stockList(stock)}, w)
}

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", obj.Users{Users: s.userList()}, w)
}

func (s *Server) adminRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", obj.BloodRequests{Requests: s.requestsWhere(nil)}, w)
}

func (s *Server) adminDonations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", obj.Donations{Donations: s.donationsWhere(nil)}, w)
}

func (s *Server) adminInventory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", map[string]any{"inventory": stockList(s.stock())}, w)
}

func (sess *session) admin() obj.AdminSession {
	return obj.AdminSession{
		AdminID:    sess.AdminID,
		AdminName:  sess.AdminName,
		AdminEmail: sess.AdminEmail,
	}
}
