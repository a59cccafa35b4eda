package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/playverse/room-service/internal/broadcast"
	"github.com/playverse/room-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type MemberSvc interface {
	ListMembers(ctx context.Context, roomID string) ([]domain.RoomUser, error)
}

type MicSvc interface {
	MicState(ctx context.Context, roomID string) ([]domain.MicSeat, error)
}

// Server регистрирует живые сокеты в хабе. Хаб сам живость не определяет —
// снятие с учёта при разрыве происходит здесь.
type Server struct {
	upgrader  websocket.Upgrader
	hub       *broadcast.Hub
	memberSvc MemberSvc
	micSvc    MicSvc

	pingEvery time.Duration
}

func NewServer(hub *broadcast.Hub, member MemberSvc, mic MicSvc) *Server {
	return &Server{
		hub:       hub,
		memberSvc: member,
		micSvc:    mic,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws/rooms/{id}?access_token=...&user_id=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("access_token")) == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(q.Get("user_id")), 10, 64)
	if err != nil || uid <= 0 {
		http.Error(w, "invalid user_id", http.StatusUnauthorized)
		return
	}
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, roomID, uid)
	s.hub.Join(roomID, uid, c)
	s.hub.RegisterGlobal(uid, c)

	if err := s.sendState(r.Context(), c); err != nil {
		slog.Warn("ws send initial state failed", "room", roomID, "user", uid, "err", err)
	}

	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypePeerJoined,
		Payload: broadcast.PeerEventPayload{
			RoomID: roomID, UserID: uid, TSUnix: time.Now().Unix(),
		},
	}, uid)

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)

	s.hub.Leave(roomID, uid)
	s.hub.UnregisterGlobal(uid)

	s.hub.Broadcast(roomID, broadcast.Message{
		Type: broadcast.TypePeerLeft,
		Payload: broadcast.PeerEventPayload{
			RoomID: roomID, UserID: uid, TSUnix: time.Now().Unix(),
		},
	}, uid)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "user", uid, "err", err)
	}
}

func (s *Server) sendState(ctx context.Context, c *wsConn) error {
	members, err := s.memberSvc.ListMembers(ctx, c.roomID)
	if err != nil {
		return err
	}
	seats, err := s.micSvc.MicState(ctx, c.roomID)
	if err != nil {
		return err
	}

	parts := make([]StateParticipant, 0, len(members))
	for _, m := range members {
		parts = append(parts, StateParticipant{
			UserID:         m.UserID,
			Role:           string(m.Role),
			SeatNumber:     m.SeatNumber,
			IsMicOn:        m.IsMicOn,
			IsInvitedToMic: m.IsInvitedToMic,
			JoinedAt:       m.JoinedAt.Unix(),
		})
	}
	seatItems := make([]StateSeat, 0, len(seats))
	for _, st := range seats {
		seatItems = append(seatItems, StateSeat{
			SeatNumber: st.SeatNumber,
			Status:     string(st.Status),
			OccupantID: st.OccupantID,
			IsMuted:    st.IsMuted,
		})
	}

	return c.Send(broadcast.Message{
		Type: broadcast.TypeState,
		Payload: StatePayload{
			RoomID:       c.roomID,
			Participants: parts,
			Seats:        seatItems,
		},
	})
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	// входящих команд по сокету нет — все мутации идут через HTTP;
	// цикл держит соединение и отслеживает разрыв
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}
