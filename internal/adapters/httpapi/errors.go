package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// errorResponse is the client-error payload: {"Error":{"Message":...}}.
type errorResponse struct {
	Error errorBody `json:"Error"`
}

type errorBody struct {
	Code      string `json:"Code,omitempty"`
	Message   string `json:"Message"`
	RequestID string `json:"RequestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	body := errorResponse{Error: errorBody{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
