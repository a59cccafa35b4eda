package broadcast

// Типы событий, уходящих в сокеты комнаты.
const (
	TypeState           = "state" // снапшот участников и мест
	TypePeerJoined      = "peer_joined"
	TypePeerLeft        = "peer_left"
	TypeSeatSwitched    = "seat_switched"
	TypeMicInvited      = "mic_invited"
	TypeMicRemoved      = "mic_removed"
	TypeMicLocked       = "mic_locked"
	TypeMicMuted        = "mic_muted"
	TypeMicChanged      = "mic_changed"
	TypeUserKicked      = "user_kicked"
	TypeUserBanned      = "user_banned"
	TypeUserUnbanned    = "user_unbanned"
	TypeModeratorGrant  = "moderator_granted"
	TypeModeratorRevoke = "moderator_revoked"
	TypeForceDisconnect = "force_disconnect"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ModerationPayload — общая форма уведомлений о действиях модерации.
type ModerationPayload struct {
	RoomID       string `json:"room_id"`
	ModeratorID  int64  `json:"moderator_id"`
	TargetUserID *int64 `json:"target_user_id,omitempty"`
	SeatNumber   *int   `json:"seat_number,omitempty"`
	FromSeat     *int   `json:"from_seat,omitempty"`
	ToSeat       *int   `json:"to_seat,omitempty"`
	Lock         *bool  `json:"lock,omitempty"`
	Mute         *bool  `json:"mute,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Reason       string `json:"reason,omitempty"`
	TSUnix       int64  `json:"ts_unix"`
}

type PeerEventPayload struct {
	RoomID     string `json:"room_id"`
	UserID     int64  `json:"user_id"`
	SeatNumber *int   `json:"seat_number,omitempty"`
	TSUnix     int64  `json:"ts_unix"`
}

type DisconnectPayload struct {
	RoomID string `json:"room_id"`
	Reason string `json:"reason,omitempty"`
}
