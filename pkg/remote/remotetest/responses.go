package remotetest

import (
	"encoding/json"
	"log"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func reply(w http.ResponseWriter, status int, success bool, message string, data any) {
	payload, err := json.Marshal(envelope{
		Success: success,
		Message: message,
		Data:    data,
	})
	if err != nil {
		log.Println(err)
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		log.Println(err)
	}
}

func ok(message string, data any, w http.ResponseWriter) {
	reply(w, http.StatusOK, true, message, data)
}

func created(message string, data any, w http.ResponseWriter) {
	reply(w, http.StatusCreated, true, message, data)
}

func badRequest(message string, w http.ResponseWriter) {
	reply(w, http.StatusBadRequest, false, message, nil)
}

func unauthorized(message string, w http.ResponseWriter) {
	reply(w, http.StatusUnauthorized, false, message, nil)
}

func forbidden(message string, w http.ResponseWriter) {
	reply(w, http.StatusForbidden, false, message, nil)
}

func notFound(message string, w http.ResponseWriter) {
	reply(w, http.StatusNotFound, false, message, nil)
}

func methodNotAllowed(w http.ResponseWriter) {
	reply(w, http.StatusMethodNotAllowed, false, "Method not allowed.", nil)
}

func internalServerError(w http.ResponseWriter) {
	reply(w, http.StatusInternalServerError, false, "Internal server error.", nil)
}
