package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robalobadob/scramble/internal/game"
	"github.com/robalobadob/scramble/internal/store"
)

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, msg string) {
	writeJSON(w, code, ErrorResponse{Error: errCode, Message: msg})
}

// errorFor maps domain errors to status, code and user-facing message.
func errorFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, game.ErrEmptyCatalog):
		return http.StatusConflict, "empty_catalog", game.MsgNoWords
	case errors.Is(err, game.ErrRoundInactive):
		return http.StatusConflict, "round_inactive", game.MsgStartFirst
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found", "game not found"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	code, errCode, msg := errorFor(err)
	writeError(w, code, errCode, msg)
}
