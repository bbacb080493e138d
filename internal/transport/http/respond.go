package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "datagov/pkg/domain-errors"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates a domain error into the JSON error envelope. Config
// errors are reported as plain internal failures so policy file details stay
// out of responses.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	msg := err.Error()
	if code == dErrors.CodeConfig || code == dErrors.CodeInternal {
		msg = "internal server error"
	}
	writeJSON(w, dErrors.HTTPStatus(err), errorEnvelope{
		Error:   string(code),
		Message: msg,
	})
}
