package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hanifwid/go-shop-api/internal/apperr"
)

// apiResponse is the uniform envelope every endpoint returns.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, code int, msg string, data any) {
	writeJSON(w, code, apiResponse{Success: true, Message: msg, Data: data})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: msg})
}

// writeError maps the business-rule taxonomy onto status codes. Anything
// outside the taxonomy is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: err.Error()})
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: err.Error()})
	case apperr.IsInsufficientStock(err), apperr.IsDuplicate(err):
		writeJSON(w, http.StatusConflict, apiResponse{Success: false, Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
