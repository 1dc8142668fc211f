package ops

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parlaybook/engine/internal/domain"
)

// Finalize batches and slip placements are small; anything past this is a
// malformed or hostile payload.
const maxRequestBody = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError maps an error to a JSON error body. Wrapped domain errors keep
// their code and status; everything else degrades to a plain 500.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.ErrInternal("internal server error", err)
	}
	RespondJSON(w, appErr.Status, errorBody{Code: appErr.Code, Message: appErr.Message})
}

// DecodeJSON decodes a size-capped JSON request body into dst, rejecting
// fields the handler does not know about.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: " + err.Error())
	}
	return nil
}
