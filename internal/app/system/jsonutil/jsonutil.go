// Package jsonutil writes JSON responses with the single error envelope
// used across the API.
//
// Every failure path in the service responds with {"message": "..."} and a
// status code from the error taxonomy; internal faults are logged by the
// handler and reported here with a generic message only.
package jsonutil

import (
	"encoding/json"
	"net/http"
)

// messageBody is the error/notice envelope: {"message": "..."}.
type messageBody struct {
	Message string `json:"message"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK encodes v as JSON with status 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created encodes v as JSON with status 201.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Error writes the error envelope with the given status and message.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, messageBody{Message: msg})
}

// Message writes the envelope with status 200; used for operations whose
// only result is a confirmation text (e.g. cascading deletes).
func Message(w http.ResponseWriter, msg string) {
	Write(w, http.StatusOK, messageBody{Message: msg})
}

// Decode reads the request body into dst. Unknown fields are tolerated;
// the stores validate what matters.
func Decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
