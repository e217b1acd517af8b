package obj

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NetworkErrorMessage is the message carried by every result whose request
// never produced a readable response.
const NetworkErrorMessage = "Network error"

type (
	// Envelope is the application-level JSON body returned by the backend.
	Envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message,omitempty"`
		Data    json.RawMessage `json:"data,omitempty"`
	}

	// Result is the outcome of one call to the backend. OK reports the
	// transport and HTTP layers only; Data.Success reports the application
	// outcome and must be checked separately.
	Result struct {
		OK     bool     `json:"ok"`
		Status int      `json:"status"`
		Data   Envelope `json:"data"`
	}
)

var (
	ErrNoData error = errors.New("the response carries no data")
)

// NetworkError returns the result used when no response could be read.
func NetworkError() Result {
	return Result{
		OK:     false,
		Status: 0,
		Data: Envelope{
			Success: false,
			Message: NetworkErrorMessage,
		},
	}
}

// Succeeded reports whether both the HTTP call and the application accepted
// the request.
func (r Result) Succeeded() bool {
	return r.OK && r.Data.Success
}

// TransportFailed reports whether the request never produced a response.
func (r Result) TransportFailed() bool {
	return r.Status == 0
}

func (r Result) MessageOr(fallback string) string {
	if r.Data.Message != "" {
		return r.Data.Message
	}
	return fallback
}

// Decode unmarshals the data payload of r into a T.
func Decode[T any](r Result) (T, error) {
	var v T
	if len(r.Data.Data) == 0 || string(r.Data.Data) == "null" {
		return v, ErrNoData
	}
	if err := json.Unmarshal(r.Data.Data, &v); err != nil {
		return v, fmt.Errorf("invalid payload sent by the server: %w", err)
	}
	return v, nil
}
