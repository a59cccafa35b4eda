package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/playverse/room-service/internal/domain"
	httpmw "github.com/playverse/room-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

// POST /rooms/{id}/moderation/invite-to-mic
func (h *Handler) InviteToMic(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req InviteToMicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.InviteToMic(r.Context(), roomID, moderatorID, req.TargetUserID, req.SeatNumber); err != nil {
		writeError(w, "InviteToMic", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invited"})
}

// POST /rooms/{id}/moderation/remove-from-mic
func (h *Handler) RemoveFromMic(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req RemoveFromMicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.RemoveFromMic(r.Context(), roomID, moderatorID, req.TargetUserID, req.SeatNumber); err != nil {
		writeError(w, "RemoveFromMic", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// POST /rooms/{id}/moderation/lock-mic
func (h *Handler) LockMic(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req LockMicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.SetMicLock(r.Context(), roomID, moderatorID, req.SeatNumber, req.Lock); err != nil {
		writeError(w, "LockMic", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /rooms/{id}/moderation/mute-mic
func (h *Handler) MuteMic(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req MuteMicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.SetMicMute(r.Context(), roomID, moderatorID, req.SeatNumber, req.Mute); err != nil {
		writeError(w, "MuteMic", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /rooms/{id}/moderation/kick-user
func (h *Handler) KickUser(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req KickUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.KickUser(r.Context(), roomID, moderatorID, req.TargetUserID, req.Reason); err != nil {
		writeError(w, "KickUser", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "kicked"})
}

// POST /rooms/{id}/moderation/ban-user
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req BanUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	err := h.modSvc.BanUser(r.Context(), roomID, moderatorID, req.TargetUserID,
		domain.BanDuration(req.Duration), req.Reason)
	if err != nil {
		writeError(w, "BanUser", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "banned"})
}

// POST /rooms/{id}/moderation/unban-user
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req UnbanUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if err := h.modSvc.UnbanUser(r.Context(), roomID, moderatorID, req.TargetUserID, req.Reason); err != nil {
		writeError(w, "UnbanUser", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unbanned"})
}

// POST /rooms/{id}/moderation/change-mic
func (h *Handler) ChangeMic(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	moderatorID := httpmw.UserIDFromCtx(r.Context())

	var req ChangeMicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	err := h.modSvc.ChangeMic(r.Context(), roomID, moderatorID, req.TargetUserID, req.FromSeat, req.ToSeat)
	if err != nil {
		writeError(w, "ChangeMic", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "changed"})
}

// GET /rooms/{id}/moderation/mic-control
func (h *Handler) MicControl(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	seats, err := h.modSvc.MicState(r.Context(), roomID, callerID)
	if err != nil {
		writeError(w, "MicControl", err)
		return
	}
	resp := MicStateResponse{RoomID: roomID, Seats: make([]MicSeatItem, 0, len(seats))}
	for _, s := range seats {
		resp.Seats = append(resp.Seats, MicSeatItem{
			SeatNumber:   s.SeatNumber,
			Status:       string(s.Status),
			OccupantID:   s.OccupantID,
			LockedBy:     s.LockedBy,
			IsMuted:      s.IsMuted,
			MutedBy:      s.MutedBy,
			InvitedUsers: s.InvitedUsers,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}/moderation/events?limit=&cursor=
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	events, next, err := h.modSvc.ListEvents(r.Context(), roomID, callerID, limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, "ListEvents", err)
		return
	}
	resp := EventsResponse{Items: make([]EventItem, 0, len(events)), NextCursor: next}
	for _, e := range events {
		resp.Items = append(resp.Items, EventItem{
			ID:            e.ID,
			ModeratorID:   e.ModeratorID,
			ModeratorName: e.ModeratorName,
			TargetUserID:  e.TargetUserID,
			TargetName:    e.TargetName,
			Action:        string(e.Action),
			Reason:        e.Reason,
			Metadata:      e.Metadata,
			ExpiresAt:     e.ExpiresAt,
			CreatedAt:     e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}/moderation/bans
func (h *Handler) ListBans(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	bans, err := h.modSvc.ListBans(r.Context(), roomID, callerID)
	if err != nil {
		writeError(w, "ListBans", err)
		return
	}
	resp := BansResponse{Items: make([]BanItem, 0, len(bans))}
	for _, b := range bans {
		resp.Items = append(resp.Items, BanItem{
			UserID:    b.UserID,
			BannedBy:  b.BannedBy,
			Duration:  string(b.Duration),
			ExpiresAt: b.ExpiresAt,
			Reason:    b.Reason,
			IsActive:  b.IsActive,
			LiftedBy:  b.LiftedBy,
			LiftedAt:  b.LiftedAt,
			CreatedAt: b.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /rooms/{id}/moderation/moderators
func (h *Handler) GrantModerator(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	var req GrantModeratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	p := &domain.ModeratorPermissions{
		UserID:              req.TargetUserID,
		CanInviteToMic:      req.CanInviteToMic,
		CanRemoveFromMic:    req.CanRemoveFromMic,
		CanLockMic:          req.CanLockMic,
		CanMuteMic:          req.CanMuteMic,
		CanKickUsers:        req.CanKickUsers,
		CanBanUsers:         req.CanBanUsers,
		CanMuteUsers:        req.CanMuteUsers,
		CanManageModerators: req.CanManageModerators,
	}
	if err := h.modSvc.GrantModerator(r.Context(), roomID, callerID, p); err != nil {
		writeError(w, "GrantModerator", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "granted"})
}

// DELETE /rooms/{id}/moderation/moderators/{userID}
func (h *Handler) RevokeModerator(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || targetID <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	if err := h.modSvc.RevokeModerator(r.Context(), roomID, callerID, targetID); err != nil {
		writeError(w, "RevokeModerator", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// GET /rooms/{id}/moderation/moderators
func (h *Handler) ListModerators(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	callerID := httpmw.UserIDFromCtx(r.Context())

	grants, err := h.modSvc.ListModerators(r.Context(), roomID, callerID)
	if err != nil {
		writeError(w, "ListModerators", err)
		return
	}
	resp := ModeratorsResponse{Items: make([]ModeratorItem, 0, len(grants))}
	for _, p := range grants {
		resp.Items = append(resp.Items, ModeratorItem{
			UserID:              p.UserID,
			CanInviteToMic:      p.CanInviteToMic,
			CanRemoveFromMic:    p.CanRemoveFromMic,
			CanLockMic:          p.CanLockMic,
			CanMuteMic:          p.CanMuteMic,
			CanKickUsers:        p.CanKickUsers,
			CanBanUsers:         p.CanBanUsers,
			CanMuteUsers:        p.CanMuteUsers,
			CanManageModerators: p.CanManageModerators,
			GrantedBy:           p.GrantedBy,
			CreatedAt:           p.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
