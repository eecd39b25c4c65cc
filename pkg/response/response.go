// Package response writes the JSON bodies the inventory API speaks.
//
// Success bodies are the resource itself (or a {"mensaje": ...} confirmation);
// every failure is {"error": "<message>"} so a UI can display it verbatim.
package response

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with data as the body.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 confirming the new resource id.
func Created(w http.ResponseWriter, id uint, message string) {
	JSON(w, http.StatusCreated, map[string]interface{}{"id": id, "mensaje": message})
}

// Message sends a 200 confirmation.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, map[string]string{"mensaje": message})
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// ValidationError sends a 422 with the field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Datos inválidos", Errors: errs})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
