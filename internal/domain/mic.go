package domain

import "time"

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatOccupied    SeatStatus = "occupied"
	SeatLocked      SeatStatus = "locked"
	SeatInvitedOnly SeatStatus = "invited_only"
)

// MicSeat — состояние одного места в комнате. Строки создаются лениво,
// при первой мутации места, а не при создании комнаты.
// Статус обязан соответствовать RoomUser.seat_number: никто не может
// занять место со статусом locked или occupied чужим пользователем.
type MicSeat struct {
	RoomID       string     `db:"room_id"`
	SeatNumber   int        `db:"seat_number"`
	Status       SeatStatus `db:"status"`
	OccupantID   *int64     `db:"occupant_id"`
	LockedBy     *int64     `db:"locked_by"`
	IsMuted      bool       `db:"is_muted"`
	MutedBy      *int64     `db:"muted_by"`
	InvitedUsers []int64    `db:"invited_users"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
