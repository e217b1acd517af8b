package remotetest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

type (
	registerInput struct {
		Name       string `json:"name" validate:"min=2"`
		Email      string `json:"email" validate:"required,max=254,email"`
		Password   string `json:"password" validate:"min=6"`
		BloodGroup string `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
		AdminCode  string `json:"admin_code"`
	}

	loginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	roleInput struct {
		Role string `json:"role_choice" validate:"oneof=donor recipient"`
	}

	bloodRequestInput struct {
		PatientName string          `json:"patient_name" validate:"min=2"`
		BloodGroup  string          `json:"blood_group" validate:"oneof=A+ A- B+ B- AB+ AB- O+ O-"`
		Units       json.RawMessage `json:"units"`
		Hospital    string          `json:"hospital"`
	}

	donationInput struct {
		BloodGroup   string `json:"blood_group" validate:"oneof=A+ A- B+ B- AB+ AB- O+ O-"`
		DonationDate string `json:"donation_date" validate:"required"`
		Location     string `json:"location" validate:"min=2"`
		TimeSlot     string `json:"time_slot"`
	}

	contactInput struct {
		Name    string `json:"name" validate:"min=2"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Message string `json:"message" validate:"min=10"`
	}
)

// messages maps "scope.field", "field.tag" or "field" to the text the
// backend answers with, most specific first.
var messages = map[string]string{
	"name":           "Name must be at least 2 characters",
	"email.required": "Email is required",
	"email":          "Invalid email format",
	"password":       "Password must be at least 6 characters",
	"blood_group":    "Invalid blood group",
	"role_choice":    "Please choose donor or recipient",
	"patient_name":   "Patient name must be at least 2 characters",
	"hospital":       "Hospital name/address must be at least 5 characters",
	"donation_date":  "Donation date is required",
	"location":       "Location is required",
	"subject":        "Subject is required",
	"message":        "Message must be at least 10 characters",

	"login.password":       "Password is required",
	"donation.blood_group": "Please select a valid blood group",
}

// missing holds the answer to an empty or unreadable payload, per scope.
var missing = map[string]string{
	"register": "Missing registration data",
	"login":    "Missing login data",
	"request":  "Missing request data",
	"donation": "Missing donation data",
	"contact":  "Missing contact data",
}

var errMissingData = errors.New("missing data")

// decode reads a JSON body into dest. An empty, null or unreadable body is
// reported as errMissingData.
func decode(r *http.Request, dest any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errMissingData
	}
	switch strings.TrimSpace(string(body)) {
	case "", "null", "{}":
		return errMissingData
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errMissingData
	}
	return nil
}

// check validates in and returns the message of the first failing field.
// scope selects scope specific messages, e.g. "login".
func check(scope string, in any) string {
	err := validate.Struct(in)
	if err == nil {
		return ""
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request"
	}
	fe := errs[0]
	for _, key := range []string{scope + "." + fe.Field(), fe.Field() + "." + fe.Tag(), fe.Field()} {
		if m, ok := messages[key]; ok {
			return m
		}
	}
	return "Invalid " + fe.Field()
}

// parseUnits accepts a number or a numeric string between 1 and 100.
func parseUnits(raw json.RawMessage) (int, string) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, "Units must be a number (1-100)"
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, "Units must be a number (1-100)"
		}
		n = v
	}
	if n < 1 || n > 100 {
		return 0, "Units must be between 1 and 100"
	}
	return n, ""
}

func trim(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
