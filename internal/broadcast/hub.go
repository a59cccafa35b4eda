package broadcast

import (
	"sync"
)

// Conn — живой сокет участника. Хаб не владеет жизненным циклом
// соединения: снятие с учёта при разрыве — обязанность транспорта.
type Conn interface {
	Send(msg Message) error
	Close() error
	Open() bool
	UserID() int64
	RoomID() string
}

// Broadcaster — интерфейс рассылки для сервисного слоя. In-memory Hub —
// один бекенд; RedisBridge поверх него — межпроцессный.
type Broadcaster interface {
	// excludeUserID == 0 — без исключений.
	Broadcast(roomID string, msg Message, excludeUserID int64)
	SendToUser(userID int64, msg Message) bool
	ForceDisconnect(roomID string, userID int64, reason string)
}

// Hub — две process-local карты: комната → (пользователь → сокет) и
// пользователь → сокет для адресной доставки вне комнат. Бизнес-логики
// здесь нет, это чистый fan-out.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[int64]Conn
	users map[int64]Conn
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[int64]Conn),
		users: make(map[int64]Conn),
	}
}

func (h *Hub) Join(roomID string, userID int64, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[roomID]
	if !ok {
		rs = make(map[int64]Conn)
		h.rooms[roomID] = rs
	}
	rs[userID] = c
}

func (h *Hub) Leave(roomID string, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rs, ok := h.rooms[roomID]; ok {
		delete(rs, userID)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) RegisterGlobal(userID int64, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[userID] = c
}

func (h *Hub) UnregisterGlobal(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.users, userID)
}

// Broadcast — best-effort: закрытые сокеты молча пропускаются,
// из карты их не выкидываем — это сделает транспорт при разрыве.
func (h *Hub) Broadcast(roomID string, msg Message, excludeUserID int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rs, ok := h.rooms[roomID]; ok {
		for uid, c := range rs {
			if uid == excludeUserID || !c.Open() {
				continue
			}
			_ = c.Send(msg)
		}
	}
}

func (h *Hub) SendToUser(userID int64, msg Message) bool {
	h.mu.RLock()
	c, ok := h.users[userID]
	h.mu.RUnlock()

	if !ok || !c.Open() {
		return false
	}
	return c.Send(msg) == nil
}

// ForceDisconnect шлёт цели структурированное сообщение и снимает её
// с учёта комнаты — живое присутствие гаснет вместе с членством.
func (h *Hub) ForceDisconnect(roomID string, userID int64, reason string) {
	h.mu.Lock()
	var c Conn
	if rs, ok := h.rooms[roomID]; ok {
		c = rs[userID]
		delete(rs, userID)
		if len(rs) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	if c != nil && c.Open() {
		_ = c.Send(Message{
			Type:    TypeForceDisconnect,
			Payload: DisconnectPayload{RoomID: roomID, Reason: reason},
		})
		_ = c.Close()
	}
}
