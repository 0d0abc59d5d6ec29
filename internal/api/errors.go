package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
}

// errBadRequest marks malformed requests (bad JSON, bad query values).
var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrListClosed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEmptyList),
		errors.Is(err, db.ErrDuplicateCategory),
		errors.Is(err, db.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = "not found"
	case http.StatusInternalServerError:
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// conflicts are told apart by message prefix, the status alone is ambiguous
var conflictErrors = []error{
	service.ErrListClosed,
	service.ErrInvalidTransition,
	service.ErrEmptyList,
	db.ErrDuplicateCategory,
	db.ErrEmailTaken,
}

// errorFromResponse maps a non-2xx response back to the sentinel the server started from.
func errorFromResponse(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	msg := strings.TrimSpace(eb.Error)
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch status {
	case http.StatusNotFound:
		return db.ErrNotFound
	case http.StatusUnauthorized:
		return auth.ErrUnauthenticated
	case http.StatusBadRequest:
		sentinel = service.ErrValidation
	case http.StatusConflict:
		for _, e := range conflictErrors {
			if strings.HasPrefix(msg, e.Error()) {
				sentinel = e
				break
			}
		}
	}
	if sentinel == nil {
		return fmt.Errorf("server returned %d: %s", status, msg)
	}
	// the server message usually already starts with the sentinel text
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()); ok {
		if rest == "" {
			return sentinel
		}
		return fmt.Errorf("%w%s", sentinel, rest)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
