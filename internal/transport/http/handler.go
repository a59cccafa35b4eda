package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/playverse/room-service/internal/domain"
	"github.com/playverse/room-service/internal/service"
	httpmw "github.com/playverse/room-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	roomSvc   *service.RoomService
	memberSvc *service.MemberService
	modSvc    *service.ModerationService
}

func NewHandler(room *service.RoomService, member *service.MemberService, mod *service.ModerationService) *Handler {
	return &Handler{
		roomSvc:   room,
		memberSvc: member,
		modSvc:    mod,
	}
}

// POST /rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	room, err := h.roomSvc.CreateRoom(r.Context(), userID, req.MaxSeats, domain.Visibility(req.Visibility))
	if err != nil {
		writeError(w, "CreateRoom", err)
		return
	}
	writeJSON(w, http.StatusCreated, mapRoom(room))
}

// GET /rooms?limit=&cursor=
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	rooms, next, err := h.roomSvc.ListRooms(r.Context(), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, "ListRooms", err)
		return
	}
	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(rooms)), NextCursor: next}
	for _, rm := range rooms {
		resp.Items = append(resp.Items, mapRoom(&rm))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "GetRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, mapRoom(room))
}

// DELETE /rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if err := h.roomSvc.DeleteRoom(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, "DeleteRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /rooms/{id}/join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := httpmw.UserIDFromCtx(r.Context())

	var req JoinRoomRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
			return
		}
	}

	ru, err := h.memberSvc.JoinRoom(r.Context(), roomID, userID, req.SeatNumber)
	if err != nil {
		writeError(w, "JoinRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, mapMember(ru))
}

// POST /rooms/{id}/auto-join
func (h *Handler) AutoJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := httpmw.UserIDFromCtx(r.Context())

	ru, err := h.memberSvc.JoinRoom(r.Context(), roomID, userID, nil)
	if err != nil {
		writeError(w, "AutoJoinRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, mapMember(ru))
}

// POST /rooms/{id}/leave
func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := httpmw.UserIDFromCtx(r.Context())

	if err := h.memberSvc.LeaveRoom(r.Context(), roomID, userID); err != nil {
		writeError(w, "LeaveRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// POST /rooms/{id}/switch-seat
func (h *Handler) SwitchSeat(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := httpmw.UserIDFromCtx(r.Context())

	var req SwitchSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	if err := h.memberSvc.SwitchSeat(r.Context(), roomID, userID, req.SeatNumber); err != nil {
		writeError(w, "SwitchSeat", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "switched"})
}

// GET /rooms/{id}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	items, err := h.memberSvc.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "ListMembers", err)
		return
	}
	resp := MembersResponse{Items: make([]MemberItem, 0, len(items))}
	for _, ru := range items {
		resp.Items = append(resp.Items, mapMember(&ru))
	}
	writeJSON(w, http.StatusOK, resp)
}

func mapRoom(rm *domain.Room) RoomItem {
	return RoomItem{
		ID:           rm.ID,
		OwnerID:      rm.OwnerID,
		MaxSeats:     rm.MaxSeats,
		Visibility:   string(rm.Visibility),
		IsLocked:     rm.IsLocked,
		CurrentUsers: rm.CurrentUsers,
		CreatedAt:    rm.CreatedAt,
	}
}

func mapMember(ru *domain.RoomUser) MemberItem {
	return MemberItem{
		UserID:         ru.UserID,
		Role:           string(ru.Role),
		SeatNumber:     ru.SeatNumber,
		IsMicOn:        ru.IsMicOn,
		IsInvitedToMic: ru.IsInvitedToMic,
		JoinedAt:       ru.JoinedAt,
	}
}
