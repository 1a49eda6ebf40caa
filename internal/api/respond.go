package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/theirongolddev/savearn/internal/identity"
	"github.com/theirongolddev/savearn/internal/model"

	"github.com/goccy/go-json"
)

const maxBodySize = 1 << 20 // 1 MB

// Stable error codes returned in every error body.
const (
	codeValidation   = "validation_error"
	codeNotFound     = "not_found"
	codeUnauthorized = "unauthorized"
	codePersistence  = "persistence_error"
	codeInternal     = "internal_error"
)

// errorBody is the JSON shape of every failed request.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// envelope wraps successful payloads.
type envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// listBody is the GET /v1/entries response.
type listBody struct {
	Data    any     `json:"data"`
	LastKey *string `json:"lastKey"`
	Count   int     `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeFailure maps a domain error onto a status and code.
func writeFailure(w http.ResponseWriter, err error) {
	var (
		verr *model.ValidationError
		perr *model.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, codeValidation, verr.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "entry not found")
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, identity.ErrUserNotFound), errors.Is(err, identity.ErrNotConfigured):
		writeError(w, http.StatusNotFound, codeNotFound, "profile not found")
	case errors.As(err, &perr):
		writeError(w, http.StatusInternalServerError, codePersistence, "storage failure")
	case errors.Is(err, identity.ErrUnauthorized), errors.Is(err, identity.ErrRateLimited):
		writeError(w, http.StatusBadGateway, codeInternal, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// decodeEntry reads an entry body. chosenAmount may be 0 but must be sent;
// a zero decimal alone cannot tell 0 from absent.
func decodeEntry(r *http.Request) (model.EntryInput, error) {
	var in model.EntryInput
	body, err := readBody(r, &in)
	if err != nil {
		return in, err
	}
	var sent struct {
		ChosenAmount json.RawMessage `json:"chosenAmount"`
	}
	if err := json.Unmarshal(body, &sent); err != nil {
		return in, &model.ValidationError{Field: "body", Reason: fmt.Sprintf("is not valid JSON (%v)", err)}
	}
	if len(sent.ChosenAmount) == 0 || string(sent.ChosenAmount) == "null" {
		return in, &model.ValidationError{Field: "chosenAmount", Reason: "is required"}
	}
	return in, nil
}

// readBody reads a JSON request body into v and returns the raw bytes.
func readBody(r *http.Request, v any) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, &model.ValidationError{Field: "body", Reason: "could not be read"}
	}
	if len(body) > maxBodySize {
		return nil, &model.ValidationError{Field: "body", Reason: "is too large"}
	}
	if len(body) == 0 {
		return nil, &model.ValidationError{Field: "body", Reason: "is required"}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return nil, &model.ValidationError{Field: "body", Reason: fmt.Sprintf("is not valid JSON (%v)", err)}
	}
	return body, nil
}
