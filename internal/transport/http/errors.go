package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playverse/room-service/internal/domain"
	"github.com/playverse/room-service/internal/postgres"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — единая точка маппинга доменных ошибок на статусы.
// Неопознанные ошибки — 500 с логированием: персистенс-ошибки не глотаются.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrNotInRoom),
		errors.Is(err, domain.ErrBanNotFound),
		errors.Is(err, domain.ErrGrantNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrSeatTaken),
		errors.Is(err, domain.ErrSeatLocked),
		errors.Is(err, domain.ErrOwnerImmune),
		errors.Is(err, domain.ErrBanned):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidSeat),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, postgres.ErrInvalidCursor):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("handler."+op, slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
