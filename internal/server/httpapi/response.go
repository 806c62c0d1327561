package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/services"
)

// SuccessResponse is returned by mutating operations.
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Success    string `json:"success"`
	Message    string `json:"message"`
	AuthToken  string `json:"authToken,omitempty"`
}

// FetchResponse wraps a profile or a list of profiles.
type FetchResponse struct {
	StatusCode int    `json:"statusCode"`
	Type       string `json:"type"`
	Message    any    `json:"message"`
}

// ErrorResponse is returned for every rejection.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

const fetchType = "success"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeResult(w http.ResponseWriter, res *services.Result) {
	writeJSON(w, res.StatusCode, SuccessResponse{
		StatusCode: res.StatusCode,
		Success:    res.Status,
		Message:    res.Message,
		AuthToken:  res.AuthToken,
	})
}

func writeFetch(w http.ResponseWriter, payload any) {
	writeJSON(w, http.StatusOK, FetchResponse{StatusCode: http.StatusOK, Type: fetchType, Message: payload})
}

// writeError renders err. Causes of server errors are never exposed.
func writeError(w http.ResponseWriter, err error) {
	var fe *common.FieldError
	if !errors.As(err, &fe) {
		fe = common.NewServerError(err)
	}
	writeJSON(w, fe.StatusCode(), ErrorResponse{
		StatusCode: fe.StatusCode(),
		Error:      fe.StatusText(),
		Field:      fe.Field,
		Message:    fe.Message,
	})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Error:      common.StatusUnauthorized,
		Field:      fieldToken,
		Message:    message,
	})
}
