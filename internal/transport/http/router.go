package http

import (
	"net/http"
	"time"

	httpmw "github.com/playverse/room-service/internal/transport/http/middleware"
	"github.com/playverse/room-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-User-ID"},
	}))

	// WS endpoint
	r.Get("/ws/rooms/{id}", wsServer.HandleWS)

	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Post("/", h.CreateRoom)
			rm.Get("/", h.ListRooms)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Delete("/", h.DeleteRoom)
				rr.Post("/join", h.JoinRoom)
				rr.Post("/auto-join", h.AutoJoinRoom)
				rr.Post("/leave", h.LeaveRoom)
				rr.Post("/switch-seat", h.SwitchSeat)
				rr.Get("/members", h.ListMembers)

				rr.Route("/moderation", func(md chi.Router) {
					md.Get("/events", h.ListEvents)
					md.Get("/mic-control", h.MicControl)
					md.Get("/bans", h.ListBans)
					md.Post("/invite-to-mic", h.InviteToMic)
					md.Post("/remove-from-mic", h.RemoveFromMic)
					md.Post("/lock-mic", h.LockMic)
					md.Post("/mute-mic", h.MuteMic)
					md.Post("/kick-user", h.KickUser)
					md.Post("/ban-user", h.BanUser)
					md.Post("/unban-user", h.UnbanUser)
					md.Post("/change-mic", h.ChangeMic)
					md.Get("/moderators", h.ListModerators)
					md.Post("/moderators", h.GrantModerator)
					md.Delete("/moderators/{userID}", h.RevokeModerator)
				})
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
