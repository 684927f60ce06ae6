package httpapi

import (
	"encoding/json"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	MongoDB string `json:"mongodb"`
}

type loginBody struct {
	Success bool                 `json:"success"`
	User    goSession.PublicUser `json:"user"`
	Token   string               `json:"token"`
	Message string               `json:"message"`
}

type verifyBody struct {
	Success       bool   `json:"success"`
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId"`
}

type profileBody struct {
	Success bool                 `json:"success"`
	User    goSession.PublicUser `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Success: false, Error: message})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
