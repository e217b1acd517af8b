package remotetest

import (
	"cmp"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"bloodbridge/pkg/remote/obj"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	unhealthy := s.unhealthy
	s.mu.Unlock()

	if unhealthy {
		reply(w, http.StatusServiceUnavailable, true, "OK", obj.HealthStatus{Database: "error"})
		return
	}
	ok("OK", obj.HealthStatus{Database: "ok"}, w)
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	var in contactInput
	if err := decode(r, &in); err != nil {
		badRequest(missing["contact"], w)
		return
	}
	trim(&in.Name, &in.Email, &in.Subject, &in.Message)
	in.Email = strings.ToLower(in.Email)
	if msg := check("contact", in); msg != "" {
		badRequest(msg, w)
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, obj.ContactMessage(in))
	s.mu.Unlock()

	created("Thank you! Your message has been sent successfully.", nil, w)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := decode(r, &in); err != nil {
		badRequest(missing["register"], w)
		return
	}
	trim(&in.Name, &in.Email, &in.BloodGroup, &in.AdminCode)
	in.Email = strings.ToLower(in.Email)
	if msg := check("register", in); msg != "" {
		badRequest(msg, w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.AdminCode == AdminCode {
		if findByEmail(s.admins, in.Email) != nil {
			badRequest("An admin account with this email already exists.", w)
			return
		}
		a := newAccount(in.Name, in.Email, in.Password)
		s.admins = append(s.admins, a)
		created("Admin registration successful. Please login via the admin portal.", obj.Registered{AdminID: a.ID, IsAdmin: true}, w)
		return
	}

	if findByEmail(s.users, in.Email) != nil {
		badRequest("An account with this email already exists.", w)
		return
	}
	a := newAccount(in.Name, in.Email, in.Password)
	a.BloodGroup = in.BloodGroup
	s.users = append(s.users, a)
	created("Registration successful.", obj.Registered{UserID: a.ID}, w)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
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

	u := findByEmail(s.users, in.Email)
	if u == nil || !u.matches(in.Password) {
		unauthorized("Invalid email or password.", w)
		return
	}

	sess := sessionFrom(r)
	sess.UserID = u.ID
	sess.Name = u.Name
	sess.UserEmail = u.Email
	sess.Role = u.Role
	sess.CurrentRole = u.CurrentRole
	s.start(w, sess)

	ok("Login successful.", obj.LoginData{
		User: obj.LoggedUser{User: u.user(), Session: sess.user()},
	}, w)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.end(w, sessionFrom(r))
	s.mu.Unlock()

	ok("Logged out.", nil, w)
}

func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := sessionFrom(r)
	if sess.UserID == "" {
		unauthorized("Not authenticated.", w)
		return
	}
	ok("OK", sess.user(), w)
}

func (s *Server) chooseRole(w http.ResponseWriter, r *http.Request) {
	var in roleInput
	// an empty payload is reported as an invalid choice
	_ = decode(r, &in)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if msg := check("role", in); msg != "" {
		badRequest(msg, w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := sessionFrom(r)
	_, u := s.findUser(sess.UserID)
	if u == nil {
		badRequest("User not found.", w)
		return
	}
	if u.Role == obj.RoleAdmin || u.Role == obj.RoleBloodBank {
		ok("Role unchanged (special account).", nil, w)
		return
	}
	u.CurrentRole = in.Role
	sess.CurrentRole = in.Role
	ok("Role updated.", obj.RoleData{CurrentRole: in.Role}, w)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if v, err := url.PathUnescape(id); err == nil {
		id = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, u := s.findUser(id)
	if u == nil {
		notFound("User not found.", w)
		return
	}
	s.users = slices.Delete(s.users, i, i+1)
	ok("User removed successfully.", nil, w)
}

func (s *Server) myDonations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := sessionFrom(r).UserID
	ok("OK", obj.Donations{Donations: s.donationsWhere(func(d obj.Donation) bool {
		return d.DonorID == userID
	})}, w)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	var in donationInput
	if err := decode(r, &in); err != nil {
		badRequest(missing["donation"], w)
		return
	}
	trim(&in.BloodGroup, &in.DonationDate, &in.Location, &in.TimeSlot)
	if msg := check("donation", in); msg != "" {
		badRequest(msg, w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := sessionFrom(r)
	d := obj.Donation{
		ID:         uuid.NewString(),
		DonorID:    sess.UserID,
		DonorName:  sess.Name,
		BloodGroup: in.BloodGroup,
		Date:       in.DonationDate,
		Location:   in.Location,
		TimeSlot:   in.TimeSlot,
		Status:     "Scheduled",
	}
	s.donations = append(s.donations, d)
	created("Success! Your donation slot has been scheduled.", obj.Created{DonationID: d.ID}, w)
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var in bloodRequestInput
	if err := decode(r, &in); err != nil {
		badRequest(missing["request"], w)
		return
	}
	trim(&in.PatientName, &in.BloodGroup, &in.Hospital)
	if msg := check("request", in); msg != "" {
		badRequest(msg, w)
		return
	}
	units, msg := parseUnits(in.Units)
	if msg != "" {
		badRequest(msg, w)
		return
	}
	if validate.Var(in.Hospital, "min=5") != nil {
		badRequest(messages["hospital"], w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := obj.BloodRequest{
		ID:          uuid.NewString(),
		RequesterID: sessionFrom(r).UserID,
		PatientName: in.PatientName,
		BloodGroup:  in.BloodGroup,
		Units:       units,
		Hospital:    in.Hospital,
		Status:      "pending",
		Timestamp:   s.now().Format("2006-01-02"),
	}
	s.requests = append(s.requests, b)
	created("Blood request has been posted successfully!", obj.Created{RequestID: b.ID}, w)
}

func (s *Server) myRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock := s.stock()
	ok("OK", map[string]any{
		"requests":  s.withAvailability(sessionFrom(r).UserID, stock),
		"inventory": stock,
	}, w)
}

func (s *Server) pendingRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", obj.BloodRequests{Requests: s.requestsWhere(isPending)}, w)
}

func (s *Server) allRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", obj.BloodRequests{Requests: s.requestsWhere(nil)}, w)
}

func (s *Server) inventory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok("OK", map[string]any{"inventory": s.stock()}, w)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := sessionFrom(r)
	_, u := s.findUser(sess.UserID)
	if u == nil {
		s.end(w, sess)
		unauthorized("User not found.", w)
		return
	}

	if u.Role == obj.RoleBloodBank {
		ok("OK", s.bankDashboard(), w)
		return
	}

	current := cmp.Or(u.CurrentRole, sess.CurrentRole)
	switch current {
	case obj.RoleDonor:
		ok("OK", map[string]any{
			"view": obj.ViewDonor,
			"donations": s.donationsWhere(func(d obj.Donation) bool {
				return d.DonorID == u.ID
			}),
		}, w)
	case obj.RoleRecipient:
		stock := s.stock()
		ok("OK", map[string]any{
			"view":      obj.ViewRecipient,
			"requests":  s.withAvailability(u.ID, stock),
			"inventory": stock,
		}, w)
	default:
		ok("Choose role", map[string]any{"view": obj.ViewChooseRole}, w)
	}
}

func (s *Server) bankDashboard() map[string]any {
	now := s.now()
	stock := s.stock()

	recent := s.donationsWhere(nil)
	donors := make([]obj.RecentDonor, 0, 5)
	for _, d := range recent[:min(5, len(recent))] {
		donors = append(donors, obj.RecentDonor{
			Name:         cmp.Or(d.DonorName, "Unknown"),
			BloodGroup:   cmp.Or(d.BloodGroup, "N/A"),
			LastDonation: cmp.Or(d.Date, "N/A"),
		})
	}

	pending := s.requestsWhere(isPending)
	return map[string]any{
		"view": obj.ViewBloodBank,
		"stats": obj.BankStats{
			TotalDonors:     s.distinctDonors(),
			PendingRequests: len(pending),
			TotalUnits:      total(stock),
			TodayDonations:  s.donationsOn(now.Format("2006-01-02")),
		},
		"donors":    donors,
		"inventory": stockList(stock),
		"requests":  pending[:min(10, len(pending))],
		"today":     now.Format("02 Jan 2006"),
	}
}

func isPending(b obj.BloodRequest) bool {
	return b.Status == "pending"
}

// requestsWhere returns the matching requests, newest first; the caller
// holds s.mu.
func (s *Server) requestsWhere(keep func(obj.BloodRequest) bool) []obj.BloodRequest {
	out := make([]obj.BloodRequest, 0, len(s.requests))
	for i := len(s.requests) - 1; i >= 0; i-- {
		if keep == nil || keep(s.requests[i]) {
			out = append(out, s.requests[i])
		}
	}
	slices.SortStableFunc(out, func(a, b obj.BloodRequest) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return out
}

// donationsWhere returns the matching donations, latest date first; the
// caller holds s.mu.
func (s *Server) donationsWhere(keep func(obj.Donation) bool) []obj.Donation {
	out := make([]obj.Donation, 0, len(s.donations))
	for i := len(s.donations) - 1; i >= 0; i-- {
		if keep == nil || keep(s.donations[i]) {
			out = append(out, s.donations[i])
		}
	}
	slices.SortStableFunc(out, func(a, b obj.Donation) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return out
}

func (s *Server) withAvailability(requesterID string, stock map[string]int) []obj.BloodRequest {
	out := s.requestsWhere(func(b obj.BloodRequest) bool {
		return b.RequesterID == requesterID
	})
	for i := range out {
		requested := unitsOf(out[i].Units)
		available := stock[out[i].BloodGroup]
		isAvailable := requested > 0 && available >= requested
		out[i].AvailableUnits = &available
		out[i].IsAvailable = &isAvailable
	}
	return out
}

func unitsOf(v any) int {
	switch u := v.(type) {
	case int:
		return u
	case float64:
		return int(u)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(u))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (s *Server) distinctDonors() int {
	seen := make(map[string]struct{})
	for _, d := range s.donations {
		if d.DonorID != "" {
			seen[d.DonorID] = struct{}{}
		}
	}
	return len(seen)
}

func (s *Server) donationsOn(date string) int {
	n := 0
	for _, d := range s.donations {
		if d.Date == date {
			n++
		}
	}
	return n
}

func (sess *session) user() obj.SessionUser {
	return obj.SessionUser{
		UserID:      sess.UserID,
		Name:        sess.Name,
		UserEmail:   sess.UserEmail,
		Role:        sess.Role,
		CurrentRole: sess.CurrentRole,
	}
}
