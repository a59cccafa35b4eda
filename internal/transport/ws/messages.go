package ws

// Снапшот состояния комнаты, уходит клиенту сразу после подключения.
type StatePayload struct {
	RoomID       string             `json:"room_id"`
	Participants []StateParticipant `json:"participants"`
	Seats        []StateSeat        `json:"seats"`
}

type StateParticipant struct {
	UserID         int64  `json:"user_id"`
	Role           string `json:"role"`
	SeatNumber     *int   `json:"seat_number,omitempty"`
	IsMicOn        bool   `json:"is_mic_on"`
	IsInvitedToMic bool   `json:"is_invited_to_mic"`
	JoinedAt       int64  `json:"joined_at_unix"`
}

type StateSeat struct {
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
	OccupantID *int64 `json:"occupant_id,omitempty"`
	IsMuted    bool   `json:"is_muted"`
}
